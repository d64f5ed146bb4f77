package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels recorded per catalog operation
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds all application metrics
type Metrics struct {
	registry *prometheus.Registry

	// Catalog operation metrics
	OperationsTotal          *prometheus.CounterVec
	OperationDurationSeconds *prometheus.HistogramVec

	// Seed metrics
	SeededMoviesTotal prometheus.Counter

	// Health metrics
	HealthStatus        *prometheus.GaugeVec
	StoreLatencySeconds prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moviecatalog_operations_total",
				Help: "Total number of catalog operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moviecatalog_operation_duration_seconds",
				Help:    "Duration of catalog operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		SeededMoviesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "moviecatalog_seeded_movies_total",
				Help: "Total number of movies inserted by the seed step",
			},
		),

		HealthStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moviecatalog_health_status",
				Help: "Health status of dependencies (1=ok, 0=down)",
			},
			[]string{"dependency"},
		),
		StoreLatencySeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "moviecatalog_store_latency_seconds",
				Help: "Latency of the last store probe in seconds",
			},
		),
	}
}

// InitializeMetrics sets up default values for metrics
func InitializeMetrics() *Metrics {
	metrics := NewMetrics()
	metrics.HealthStatus.WithLabelValues("db").Set(0)
	return metrics
}

// ObserveOperation records one catalog operation. A nil receiver is a no-op.
func (m *Metrics) ObserveOperation(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// Registry exposes the private registry for gathering and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
