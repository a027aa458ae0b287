// Package metrics exposes Prometheus instrumentation for simulations.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renewable_simulator/internal/model"
)

const namespace = "renewsim"

// Metrics groups the collectors of one registry.
type Metrics struct {
	registry *prometheus.Registry

	simulations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	irrStatus   *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	candidates  prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		simulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulations_total",
				Help:      "Simulations run, by technology and outcome.",
			},
			[]string{"technology", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "simulation_duration_seconds",
				Help:      "Wall time of one simulation.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"technology"},
		),
		irrStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "irr_status_total",
				Help:      "Project IRR results, by status.",
			},
			[]string{"status"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups, by result.",
			},
			[]string{"result"},
		),
		candidates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimizer_candidates_total",
				Help:      "Orientation candidates evaluated by the optimizer.",
			},
		),
	}
	m.registry.MustRegister(m.simulations, m.duration, m.irrStatus, m.cacheHits, m.candidates)
	return m
}

// Register exposes the registry on /metrics.
func (m *Metrics) Register(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ObserveSimulation records a finished simulation. A nil err counts as success.
func (m *Metrics) ObserveSimulation(tech model.Technology, elapsed time.Duration, result model.Result, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	m.simulations.WithLabelValues(string(tech), outcome).Inc()
	m.duration.WithLabelValues(string(tech)).Observe(elapsed.Seconds())
	if err == nil {
		m.irrStatus.WithLabelValues(result.Summary.IRR.Status).Inc()
	}
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(result).Inc()
}

// AddCandidates counts evaluated optimizer candidates.
func (m *Metrics) AddCandidates(n int) {
	m.candidates.Add(float64(n))
}
