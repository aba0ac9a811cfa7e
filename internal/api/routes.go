// Package api serves the joke generation endpoint, ratings and health over HTTP.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware)

	handlers := NewHandlers(opts)

	r.Get("/health", handlers.Health)

	var limiter *RateLimiter
	if opts.RateLimitPerMinute > 0 {
		limiter = NewRateLimiter(opts.RateLimitPerMinute)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Use(RateLimitMiddleware(limiter))
		r.Use(JSONContentType)

		r.HandleFunc("/joke", handlers.Joke)
		r.HandleFunc("/rating", handlers.Rating)
	})

	return r
}
