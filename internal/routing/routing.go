package routing

import (
	"net/http"

	"teapot/internal/handlers"
	"teapot/internal/middleware"

	"github.com/rs/zerolog"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers *handlers.Handler
	Logger   zerolog.Logger

	// Metrics serves /metrics and observes every request. Optional.
	Metrics MetricsProvider

	// RateLimiter throttles clients per IP. Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// MetricsProvider is satisfied by *metrics.Metrics.
type MetricsProvider interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Teapots
	mux.HandleFunc("GET /teapots", h.HandleTeapotList)
	mux.HandleFunc("POST /teapots", h.HandleTeapotCreate)
	mux.HandleFunc("GET /teapots/{id}", h.HandleTeapotGet)
	mux.HandleFunc("PUT /teapots/{id}", h.HandleTeapotReplace)
	mux.HandleFunc("PATCH /teapots/{id}", h.HandleTeapotPatch)
	mux.HandleFunc("DELETE /teapots/{id}", h.HandleTeapotDelete)
	mux.HandleFunc("GET /teapots/{id}/brews", h.HandleTeapotBrews)

	// Teas
	mux.HandleFunc("GET /teas", h.HandleTeaList)
	mux.HandleFunc("POST /teas", h.HandleTeaCreate)
	mux.HandleFunc("GET /teas/{id}", h.HandleTeaGet)
	mux.HandleFunc("PUT /teas/{id}", h.HandleTeaReplace)
	mux.HandleFunc("PATCH /teas/{id}", h.HandleTeaPatch)
	mux.HandleFunc("DELETE /teas/{id}", h.HandleTeaDelete)

	// Brews and their steeps (brews have no full replace)
	mux.HandleFunc("GET /brews", h.HandleBrewList)
	mux.HandleFunc("POST /brews", h.HandleBrewCreate)
	mux.HandleFunc("GET /brews/{id}", h.HandleBrewGet)
	mux.HandleFunc("PATCH /brews/{id}", h.HandleBrewPatch)
	mux.HandleFunc("DELETE /brews/{id}", h.HandleBrewDelete)
	mux.HandleFunc("GET /brews/{id}/steeps", h.HandleSteepList)
	mux.HandleFunc("POST /brews/{id}/steeps", h.HandleSteepCreate)

	// Health and status
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /health/live", h.HandleLive)
	mux.HandleFunc("GET /health/ready", h.HandleReady)
	mux.HandleFunc("GET /brew", h.HandleBrewCoffee)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Catch-all 404 handler - catches any unmatched routes
	mux.HandleFunc("/", h.HandleNotFound)

	// Apply middleware in order (innermost first, outermost last)
	var handler http.Handler = mux

	// 1. Limit request body size (innermost - runs last before the mux)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Apply rate limiting
	handler = middleware.RateLimitMiddleware(cfg.RateLimiter)(handler)

	// 3. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 4. Turn panics into 500s so they are still counted and logged
	handler = middleware.RecoverMiddleware(cfg.Logger)(handler)

	// 5. Count requests by route pattern
	if cfg.Metrics != nil {
		handler = middleware.MetricsMiddleware(cfg.Metrics)(handler)
	}

	// 6. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 7. Assign request ids (outermost - so the log line carries it)
	handler = middleware.RequestIDMiddleware(handler)

	return handler
}
