package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"teapot/internal/database"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

// Check is a named readiness probe. Run returns nil when healthy.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// MemoryCheck fails when the live heap exceeds maxHeapMB. Zero disables the
// limit and the check always passes.
func MemoryCheck(maxHeapMB int) Check {
	return Check{
		Name: "memory",
		Run: func(ctx context.Context) error {
			if maxHeapMB <= 0 {
				return nil
			}
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			heapMB := m.HeapAlloc / (1 << 20)
			if heapMB > uint64(maxHeapMB) {
				return fmt.Errorf("heap %dMB exceeds limit %dMB", heapMB, maxHeapMB)
			}
			return nil
		},
	}
}

// StoreCheck verifies the store answers a read.
func StoreCheck(store database.Store) Check {
	return Check{
		Name: "database",
		Run: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				store.Stats()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("store did not respond: %w", ctx.Err())
			}
		},
	}
}

// readyTimeout bounds each readiness check.
const readyTimeout = 2 * time.Second

type HealthCheckResult struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs *int64 `json:"latencyMs,omitempty"`
	Message   string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string              `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Version   string              `json:"version,omitempty"`
	Checks    []HealthCheckResult `json:"checks,omitempty"`
}

type TeapotResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Spec    string `json:"spec"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    StatusOK,
		Timestamp: h.timestamp(),
		Version:   h.version,
	})
}

func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": StatusOK})
}

// Readiness probe: 200 when every check passes, otherwise 503 "degraded"
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	results := make([]HealthCheckResult, 0, len(h.checks))
	allOK := true
	for _, c := range h.checks {
		res := runCheck(r.Context(), c)
		if res.Status != StatusOK {
			allOK = false
		}
		results = append(results, res)
	}

	status, code := StatusOK, http.StatusOK
	if !allOK {
		status, code = StatusDegraded, http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: h.timestamp(),
		Checks:    results,
	})
}

func runCheck(ctx context.Context, c Check) HealthCheckResult {
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()

	start := time.Now()
	err := c.Run(ctx)
	latency := time.Since(start).Milliseconds()

	res := HealthCheckResult{Name: c.Name, Status: StatusOK, LatencyMs: &latency}
	if err != nil {
		log.Warn().Err(err).Str("check", c.Name).Msg("Readiness check failed")
		res.Status = StatusDown
		res.Message = err.Error()
	}
	return res
}

// GET /brew. This server only brews tea.
func (h *Handler) HandleBrewCoffee(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTeapot, TeapotResponse{
		Error:   "I'm a teapot",
		Message: "This server is TIF-compliant and cannot brew coffee",
		Spec:    "https://teapotframework.dev",
	})
}
