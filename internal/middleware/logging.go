package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingMiddleware writes one access log line per request, at error level
// for 5xx responses, warn for 4xx and info otherwise.
func LoggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			event := logger.WithLevel(levelForStatus(sw.status)).
				Str("method", r.Method).
				Str("path", r.URL.Path)
			if route := routeOf(r); route != "" {
				event.Str("route", route)
			}
			if r.URL.RawQuery != "" {
				event.Str("query", r.URL.RawQuery)
			}
			event.
				Int("status", sw.status).
				Dur("duration", time.Since(start)).
				Int64("bytes_written", sw.written).
				Str("client_ip", remoteIP(r))
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				event.Str("forwarded_for", fwd)
			}
			if id := RequestIDFromContext(r.Context()); id != "" {
				event.Str("request_id", id)
			}
			if r.ContentLength > 0 {
				event.Int64("content_length", r.ContentLength)
			}
			if ua := r.UserAgent(); ua != "" {
				event.Str("user_agent", ua)
			}
			event.Msg("HTTP request")
		})
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// routeOf returns the ServeMux pattern that served r without its method,
// or "" when only the catch-all matched.
func routeOf(r *http.Request) string {
	_, pattern, found := strings.Cut(r.Pattern, " ")
	if !found {
		pattern = r.Pattern
	}
	if pattern == "/" {
		return ""
	}
	return pattern
}
