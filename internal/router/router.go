package router

import (
	"net/http"

	"github.com/anonto42/campus-social/backend/internal/handlers"
	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/pkg/config"
	"github.com/anonto42/campus-social/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Users    repositories.UserRepository
	Posts    repositories.PostRepository
	Comments repositories.CommentRepository
	// Verifier enables bearer-token verification on mutating routes when set.
	Verifier middleware.TokenVerifier
	Logger   *zap.Logger
}

// New returns an echo instance with middleware and routes installed.
func New(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.JSONSerializer = validators.StrictJSONSerializer{}
	e.HTTPErrorHandler = handlers.ErrorHandler(deps.Logger)

	SetupMiddleware(e, cfg, deps.Logger)
	SetupRoutes(e, deps)
	return e
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, log *zap.Logger) {
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log.Named("http")))
	e.Use(middleware.Metrics())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(config.CORSConfig(cfg)))
	if cfg.RequestTimeout > 0 {
		e.Use(eMiddleware.ContextTimeoutWithConfig(eMiddleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}
	e.Use(eMiddleware.BodyLimit("1M"))
	log.Debug("global middleware configured", zap.Duration("requestTimeout", cfg.RequestTimeout))
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Logger

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "campus-social api"})
	})

	api := e.Group("/api")
	if deps.Verifier != nil {
		api.Use(middleware.FirebaseAuthMiddleware(deps.Verifier, middleware.SkipReads("/api/register")))
		log.Info("bearer token verification enabled for mutating routes")
	}

	authHandler := handlers.NewAuthHandler(deps.Users, log.Named("auth"))
	authHandler.RegisterAuthRoutes(api)

	userHandler := handlers.NewUserHandler(deps.Users, log.Named("users"))
	userHandler.RegisterUserRoutes(api)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(deps.Posts, deps.Users, log.Named("posts"))
	postHandler.RegisterPostRoutes(api)

	commentHandler := handlers.NewCommentHandler(deps.Comments, deps.Posts, deps.Users, log.Named("comments"))
	commentHandler.RegisterCommentRoutes(api)

	log.Debug("routes configured", zap.Int("count", len(e.Routes())))
}
