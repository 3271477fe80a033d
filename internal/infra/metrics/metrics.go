// Package metrics exposes Prometheus collectors for provider attempts,
// served poems and HTTP requests on a dedicated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodpoet/internal/domain"
)

// Metrics holds the service collectors. It implements poem.Observer.
type Metrics struct {
	registry *prometheus.Registry

	// ProviderAttempts counts provider calls by provider and outcome code.
	ProviderAttempts *prometheus.CounterVec
	// ProviderLatency tracks provider call latency.
	ProviderLatency *prometheus.HistogramVec
	// PoemsServed counts poems by source (provider id or backup).
	PoemsServed *prometheus.CounterVec
	// RequestsTotal counts HTTP requests by method, route and status code.
	RequestsTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ProviderAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodpoet_provider_attempts_total",
			Help: "LLM provider calls by outcome.",
		}, []string{"provider", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moodpoet_provider_latency_seconds",
			Help:    "Time spent in a single LLM provider call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15, 30},
		}, []string{"provider"}),
		PoemsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodpoet_poems_total",
			Help: "Poems served by source.",
		}, []string{"source"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "moodpoet_http_requests_total",
			Help: "Total HTTP requests processed.",
		}, []string{"method", "route", "status"}),
	}
}

// ProviderAttempt records one provider call.
func (m *Metrics) ProviderAttempt(provider domain.ProviderID, err error, latency time.Duration) {
	m.ProviderAttempts.WithLabelValues(string(provider), string(domain.ErrorCodeOf(err))).Inc()
	m.ProviderLatency.WithLabelValues(string(provider)).Observe(latency.Seconds())
}

// PoemServed records the source of a served poem.
func (m *Metrics) PoemServed(source string) {
	m.PoemsServed.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by method, chi route pattern and status code.
// Unmatched paths are reported under the route "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}
