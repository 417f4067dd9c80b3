package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itchan-dev/itblog/backend/internal/handler"
	"github.com/itchan-dev/itblog/backend/internal/service"
	"github.com/itchan-dev/itblog/backend/internal/storage/fs"
	"github.com/itchan-dev/itblog/backend/internal/storage/pg"
	"github.com/itchan-dev/itblog/backend/internal/utils/email"
	"github.com/itchan-dev/itblog/shared/config"
	"github.com/itchan-dev/itblog/shared/jwt"
	"github.com/itchan-dev/itblog/shared/logger"
	mw "github.com/itchan-dev/itblog/shared/middleware"
	"github.com/itchan-dev/itblog/shared/revocation"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Redis          *redis.Client // nil with the in-memory revocation backend
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Jwt            jwt.JwtService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.MediaPath)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	revoked, redisClient, err := revocationStore(cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL(), revoked)
	mailer := email.New(&cfg.Private.Email)

	confirmation := service.NewConfirmation(storage, mailer, &cfg.Public)
	services := handler.Services{
		Auth:         service.NewAuth(storage, confirmation, jwtService, cfg),
		Confirmation: confirmation,
		User:         service.NewUser(storage, &cfg.Public),
		Post:         service.NewPost(storage, service.NewRenderer(), &cfg.Public),
		Tag:          service.NewTag(storage, &cfg.Public),
		Comment:      service.NewComment(storage, &cfg.Public),
		Image:        service.NewImage(media, storage),
	}

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Redis:          redisClient,
		Handler:        handler.New(services, storage, cfg),
		AuthMiddleware: mw.NewAuth(jwtService, storage, cfg.Public.SecureCookies),
		Jwt:            jwtService,
	}, nil
}

// Cleanup releases connections opened by SetupDependencies.
func (d *Dependencies) Cleanup() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Log.Error("failed to close redis client", "error", err)
		}
	}
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close db", "error", err)
	}
}

func revocationStore(cfg *config.Config) (revocation.Store, *redis.Client, error) {
	if cfg.Public.RevocationBackend != "redis" {
		logger.Log.Info("using in-memory token revocation")
		return revocation.NewSet(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Private.Redis.Addr,
		Password: cfg.Private.Redis.Password,
		DB:       cfg.Private.Redis.DB,
	})
	store := revocation.NewRedisStore(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logger.Log.Info("using redis token revocation", "addr", cfg.Private.Redis.Addr)
	return store, client, nil
}
