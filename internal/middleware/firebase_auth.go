package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const uidContextKey = "firebaseUID"

// TokenVerifier verifies identity-provider ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware requires a valid bearer ID token on every request the
// skipper lets through and stores the verified uid on the context.
func FirebaseAuthMiddleware(verifier TokenVerifier, skipper echomw.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			scheme, idToken, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || idToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token").SetInternal(err)
			}

			c.Set(uidContextKey, token.UID)
			return next(c)
		}
	}
}

// VerifiedUID returns the uid stored by FirebaseAuthMiddleware, if any.
func VerifiedUID(c echo.Context) (string, bool) {
	uid, ok := c.Get(uidContextKey).(string)
	return uid, ok && uid != ""
}

// SkipReads skips verification for safe methods and the given paths.
func SkipReads(paths ...string) echomw.Skipper {
	return func(c echo.Context) bool {
		switch c.Request().Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return true
		}
		for _, p := range paths {
			if c.Path() == p {
				return true
			}
		}
		return false
	}
}
