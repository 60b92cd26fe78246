package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"clipfeed/internal/app"
	"clipfeed/internal/config"
	"clipfeed/internal/database"
)

const shutdownTimeout = 10 * time.Second

// Run serves both handlers until SIGINT or SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database and wire handlers
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init app: %w", err)
	}
	defer a.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, a.DB); err != nil {
			return err
		}
	}

	// 3. Setup Server
	srv := &stdhttp.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: NewRouter(RouterConfig{
			Auth:  a.AuthHandler.Handle,
			Video: a.VideoHandler.Handle,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
