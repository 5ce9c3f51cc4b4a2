package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/campus-social/backend/internal/middleware"
	"github.com/anonto42/campus-social/backend/internal/repositories"
	"github.com/anonto42/campus-social/backend/pkg/cache"
	"github.com/anonto42/campus-social/backend/pkg/config"
	"github.com/anonto42/campus-social/backend/pkg/firebase"
	"github.com/anonto42/campus-social/backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// application owns every long-lived connection of the process.
type application struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *config.DB
	redis *redis.Client

	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	verifier middleware.TokenVerifier

	// schemaStores are the unwrapped stores that own indexes or tables.
	schemaStores []interface{}
}

func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := config.InitDB(ctx, cfg, log.Named("db"))
	if err != nil {
		return nil, err
	}
	app := &application{cfg: cfg, log: log, db: db}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		posts := repositories.NewMongoPostRepository(db.Database)
		comments := repositories.NewMongoCommentRepository(db.Database)
		app.posts, app.comments = posts, comments
		app.schemaStores = append(app.schemaStores, posts, comments)
	default:
		app.posts = repositories.NewMemoryPostRepository()
		app.comments = repositories.NewMemoryCommentRepository()
		log.Warn("using in-memory store; data is lost on restart")
	}

	switch cfg.UserStore {
	case config.DriverPostgres:
		users := repositories.NewPostgresUserRepository(db.Postgres)
		app.users = users
		app.schemaStores = append(app.schemaStores, users)
	case config.DriverMongo:
		users := repositories.NewMongoUserRepository(db.Database)
		app.users = users
		app.schemaStores = append(app.schemaStores, users)
	default:
		app.users = repositories.NewMemoryUserRepository()
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			app.redis = client
			app.comments = repositories.NewCachedCommentRepository(app.comments, client, cfg.CommentCountTTL, log.Named("cache"))
		}
	}

	fb, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		app.verifier = fb.AuthClient
	case errors.Is(err, firebase.ErrNoCredentials):
		log.Info("firebase not configured, bearer tokens are not verified")
	default:
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *application) initSchemas(ctx context.Context) error {
	if err := repositories.InitSchemas(ctx, a.schemaStores...); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close releases connections in reverse order of creation.
func (a *application) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	a.db.CloseDB()
	_ = a.log.Sync()
}
