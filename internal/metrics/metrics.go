// Package metrics exposes request and catalogue metrics in the Prometheus
// text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teapot/internal/database"
)

const namespace = "teapot"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers request collectors, Go runtime collectors and one gauge per
// entity kind that reads its value from store at scrape time.
func New(store database.Store) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	kinds := map[string]func(database.Stats) int{
		"teapot": func(s database.Stats) int { return s.Teapots },
		"tea":    func(s database.Stats) int { return s.Teas },
		"brew":   func(s database.Stats) int { return s.Brews },
		"steep":  func(s database.Stats) int { return s.Steeps },
	}
	for kind, count := range kinds {
		count := count
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "store_entities",
			Help:        "Entities currently held in the store, by kind.",
			ConstLabels: prometheus.Labels{"kind": kind},
		}, func() float64 {
			return float64(count(store.Stats()))
		}))
	}

	return m
}

// ObserveRequest implements middleware.RequestObserver.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
