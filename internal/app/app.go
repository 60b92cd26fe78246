// Package app wires configuration, storage and services into the two
// handlers. Every binary builds one App at startup and reuses it across
// invocations.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"clipfeed/internal/config"
	"clipfeed/internal/database"
	"clipfeed/internal/handler"
	"clipfeed/internal/model"
	"clipfeed/internal/password"
	"clipfeed/internal/queue"
	"clipfeed/internal/redis"
	"clipfeed/internal/repository"
	"clipfeed/internal/service"
)

type App struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client // nil when REDIS_URL is unset or unreachable
	Tx     *database.Transactor

	Hashtags repository.HashtagRepository

	AuthHandler  *handler.AuthHandler
	VideoHandler *handler.VideoHandler
}

// New connects to Postgres and, when configured, Redis and the object store.
// Redis and the object store are optional; their absence only disables
// event publishing and the presign action.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		DB:       db,
		Tx:       database.NewTransactor(db),
		Hashtags: repository.NewHashtagRepository(db),
	}

	var publisher queue.Publisher
	if cfg.RedisURL != "" {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[App] Redis unavailable, video events disabled: %v", err)
		} else {
			a.Redis = client
			publisher = queue.NewPublisher(client.Client)
		}
	}

	var presigner handler.UploadPresigner
	media, err := service.NewMediaService(ctx, cfg)
	switch {
	case err == nil:
		presigner = media
	case errors.Is(err, model.ErrUploadsDisabled):
		log.Printf("[App] Object store not configured, presign disabled")
	default:
		a.Close()
		return nil, fmt.Errorf("init media service: %w", err)
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		a.Tx,
		password.NewHasher(password.DefaultParams),
		cfg.SessionMaxAge,
	)
	videoService := service.NewVideoService(
		repository.NewVideoRepository(db),
		repository.NewCommentRepository(db),
		a.Hashtags,
		a.Tx,
		publisher,
	)

	a.AuthHandler = handler.NewAuthHandler(authService)
	a.VideoHandler = handler.NewVideoHandler(videoService, presigner)

	return a, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	client, err := redis.NewClient(url)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Close releases the database pool and the Redis connection.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("[App] Redis close: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		log.Printf("[App] Database close: %v", err)
	}
}
