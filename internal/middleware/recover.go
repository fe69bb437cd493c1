package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"teapot/internal/models"
)

// RecoverMiddleware turns a handler panic into a 500 INTERNAL_ERROR response.
// Nothing about the panic is sent to the client.
func RecoverMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", RequestIDFromContext(r.Context())).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")

				if !sw.wroteHeader {
					writeErrorJSON(sw, http.StatusInternalServerError, models.CodeInternal, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
