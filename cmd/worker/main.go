// Command worker indexes hashtags of uploaded videos from the Redis stream.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"clipfeed/internal/config"
	"clipfeed/internal/database"
	"clipfeed/internal/queue"
	"clipfeed/internal/redis"
	"clipfeed/internal/repository"
	"clipfeed/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required for the worker")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	client, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create Redis client: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		log.Fatalf("Redis unreachable: %v", err)
	}

	handler := worker.NewHandler(repository.NewHashtagRepository(db), database.NewTransactor(db))

	managerCfg := worker.DefaultManagerConfig()
	managerCfg.WorkerCount = cfg.WorkerCount

	manager := worker.NewManager(queue.NewConsumer(client.Client), handler, managerCfg)
	if err := manager.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	<-ctx.Done()
	manager.Stop()
	log.Println("Worker exited")
}
