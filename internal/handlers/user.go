package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests related to user accounts and profiles
type UserHandler struct {
	userRepository repositories.UserRepository
	log            *zap.Logger
	now            func() time.Time
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, log *zap.Logger) *UserHandler {
	return &UserHandler{userRepository: userRepo, log: log, now: time.Now}
}

// RegisterUserRoutes registers the account sync routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.UpsertUser)
	g.GET("/users", h.GetUser)
}

// RegisterProfileRoutes registers the profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.PUT("/profile/photo", h.UpdateProfilePhoto)
}

// UpsertUser creates the user on first sign-in and refreshes it afterwards.
// An unverified request matches a user on either uid or email; a verified
// one only on the token's uid.
func (h *UserHandler) UpsertUser(c echo.Context) error {
	var req models.UpsertUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	now := h.now()

	// A verified caller may only refresh its own account, so the body email
	// is not used to find a match.
	uid, verified := middleware.VerifiedUID(c)
	var (
		existing *models.User
		err      error
	)
	if verified {
		existing, err = h.userRepository.GetUserByUID(ctx, uid)
	} else {
		uid = req.UID
		existing, err = h.userRepository.FindByUIDOrEmail(ctx, uid, req.Email)
	}
	switch {
	case err == nil:
		existing.DisplayName = strings.TrimSpace(req.DisplayName)
		if req.PhotoURL != "" {
			existing.PhotoURL = req.PhotoURL
		}
		existing.LastLoginAt = now
		existing.Touch(now)
		if err := h.userRepository.UpdateUser(ctx, existing); err != nil {
			return storeError(err, "User")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"user":    existing,
			"message": "User updated successfully",
			"created": false,
		})
	case !errors.Is(err, repositories.ErrNotFound):
		return storeError(err, "User")
	}

	user := models.NewUser(uid, req.Email, req.DisplayName, req.PhotoURL, now)
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "User with this email or UID already exists")
		}
		return storeError(err, "User")
	}
	h.log.Info("user created", zap.String("uid", user.UID))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    user,
		"message": "User created successfully",
		"created": true,
	})
}

// GetUser looks a user up by uid or email. When both are given they must
// belong to the same user.
func (h *UserHandler) GetUser(c echo.Context) error {
	uid := c.QueryParam("uid")
	email := c.QueryParam("email")
	ctx := c.Request().Context()

	var (
		user *models.User
		err  error
	)
	switch {
	case uid != "":
		user, err = h.userRepository.GetUserByUID(ctx, uid)
		if err == nil && email != "" && user.Email != models.NormalizeEmail(email) {
			err = repositories.ErrNotFound
		}
	case email != "":
		user, err = h.userRepository.GetUserByEmail(ctx, email)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "UID or email parameter is required")
	}
	if err != nil {
		return storeError(err, "User")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// GetProfile returns the full profile of ?uid=
func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID is required")
	}
	user, err := h.userRepository.GetUserByUID(c.Request().Context(), uid)
	if err != nil {
		return storeError(err, "User")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies the allow-listed profile fields of the body
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByUID(ctx, actingUser(c, req.UID))
	if err != nil {
		return storeError(err, "User")
	}
	if err := req.ApplyTo(user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid dateOfBirth").SetInternal(err)
	}
	user.Touch(h.now())
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UpdateProfilePhoto replaces the avatar URL
func (h *UserHandler) UpdateProfilePhoto(c echo.Context) error {
	var req models.UpdatePhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByUID(ctx, actingUser(c, req.UID))
	if err != nil {
		return storeError(err, "User")
	}
	user.PhotoURL = req.PhotoURL
	user.Touch(h.now())
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return storeError(err, "User")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Profile photo updated successfully",
		"photoURL": user.PhotoURL,
	})
}
