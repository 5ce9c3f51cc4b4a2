package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/campus-social/backend/internal/models"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles local account registration
type AuthHandler struct {
	userRepository repositories.UserRepository
	log            *zap.Logger
	hashCost       int
	now            func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		log:            log,
		hashCost:       bcrypt.DefaultCost,
		now:            time.Now,
	}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
}

// Register creates a password-protected local account
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	_, err := h.userRepository.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		return storeError(err, "User")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.hashCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password").SetInternal(err)
	}

	user := models.NewUser("local-"+uuid.NewString(), req.Email, req.Name, "", h.now())
	user.PasswordHash = string(hashed)
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "User already exists")
		}
		return storeError(err, "User")
	}

	h.log.Info("local account registered", zap.String("uid", user.UID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"uid":     user.UID,
	})
}
