package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"clipfeed/internal/httputil"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	Auth  httputil.HandlerFunc
	Video httputil.HandlerFunc
}

// NewRouter mounts both handlers. Each one dispatches on method and action
// itself, so every method is routed to it.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.Write(w, httputil.JSON(http.StatusOK, map[string]string{"status": "ok"}))
	})

	auth := Adapt(cfg.Auth)
	r.HandleFunc("/auth", auth)
	r.HandleFunc("/auth/*", auth)

	videos := Adapt(cfg.Video)
	r.HandleFunc("/videos", videos)
	r.HandleFunc("/videos/*", videos)

	return r
}
