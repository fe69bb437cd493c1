package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"teapot/internal/models"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		// JSON only: nothing may be loaded or framed
		csp := strings.Join([]string{
			"default-src 'none'",
			"frame-ancestors 'none'",
			"base-uri 'none'",
		}, "; ")
		w.Header().Set("Content-Security-Policy", csp)

		next.ServeHTTP(w, r)
	})
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMinute int
	limit     rate.Limit
	burst     int
	idle      time.Duration // forget visitors unseen for this long
	trusted   bool          // key on forwarding headers instead of the peer address
	done      chan struct{}
	closeOnce sync.Once
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// TrustProxyHeaders keys clients on X-Forwarded-For or X-Real-IP. Enable it
// only behind a reverse proxy that overwrites those headers.
func TrustProxyHeaders(trust bool) RateLimiterOption {
	return func(rl *RateLimiter) { rl.trusted = trust }
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client IP, with bursts of up
// to burst requests. Call Close to stop the background cleanup.
func NewRateLimiter(perMinute, burst int, opts ...RateLimiterOption) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		visitors:  make(map[string]*visitor),
		perMinute: perMinute,
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		idle:      3 * time.Minute,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastSeen) > rl.idle {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// RetryAfter is the number of whole seconds until one more token is available.
func (rl *RateLimiter) RetryAfter() int {
	if rl.perMinute <= 0 {
		return 60
	}
	return (60 + rl.perMinute - 1) / rl.perMinute
}

// exemptFromRateLimit reports paths that probes and scrapers hit on a schedule.
func exemptFromRateLimit(path string) bool {
	return path == "/metrics" || path == "/health" || strings.HasPrefix(path, "/health/")
}

// RateLimitMiddleware creates a rate limiting middleware. A nil limiter
// disables rate limiting.
func RateLimitMiddleware(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exemptFromRateLimit(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(clientIP(r, limiter.trusted)) {
				w.Header().Set("Retry-After", strconv.Itoa(limiter.RetryAfter()))
				writeErrorJSON(w, http.StatusTooManyRequests, models.CodeRateLimited, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxJSONBodySize limits the size of request bodies
const MaxJSONBodySize = 1 << 20 // 1 MB

// LimitBodyMiddleware limits request body size to prevent DoS
func LimitBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
		}
		next.ServeHTTP(w, r)
	})
}

// writeErrorJSON writes the standard error envelope.
func writeErrorJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Code: code, Message: message})
}
