package middleware

import (
	"net/http"
	"time"
)

// RequestObserver records one finished HTTP request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// MetricsMiddleware reports every request to obs. Requests that matched no
// specific route are reported under the route "unmatched" so that arbitrary
// paths cannot inflate label cardinality.
func MetricsMiddleware(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			route := routeOf(r)
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(r.Method, route, sw.status, time.Since(start))
		})
	}
}
