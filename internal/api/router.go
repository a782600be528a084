// Package api exposes the house store and listing discovery over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hyperifyio/housefinder/internal/extract"
	"github.com/hyperifyio/housefinder/internal/house"
)

// Discoverer extracts a record from a listing URL.
type Discoverer interface {
	Discover(ctx context.Context, url string) (extract.Record, error)
}

// Options configures the router.
type Options struct {
	// StaticDir, when set, is served for every GET not matched by the API.
	StaticDir string
	// CORSOrigins lists allowed browser origins. Empty disables CORS.
	CORSOrigins []string
	// RequestTimeout bounds each request. Zero means 60s.
	RequestTimeout time.Duration
}

// NewRouter wires the API routes.
func NewRouter(store house.Store, disc Discoverer, opts Options) http.Handler {
	h := &handlers{store: store, discoverer: disc}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/houses", h.insertHouse)
		api.Get("/houses", h.listHouses)
		api.Get("/houses/{id}", h.getHouse)
		api.Patch("/houses/{id}", h.updateHouse)
		api.Delete("/houses/{id}", h.removeHouse)
		api.Get("/discover", h.discover)
	})

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}
	return r
}
