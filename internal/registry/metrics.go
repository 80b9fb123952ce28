package registry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides Prometheus metrics for registry lifecycle transitions.
//
// All metrics use the svcctl_registry_ prefix. Methods are safe to call on a
// nil receiver, which is how a registry without metrics runs.
type Metrics struct {
	// CreatedTotal counts successful creations by service name
	CreatedTotal *prometheus.CounterVec

	// DestroyedTotal counts successful destructions by service name
	DestroyedTotal *prometheus.CounterVec

	// FailuresTotal counts slots moved to the exception state by phase and error kind
	FailuresTotal *prometheus.CounterVec

	// LiveServices tracks the number of live instances
	LiveServices prometheus.Gauge

	// CreateDuration tracks creation latency, requirements included
	CreateDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers registry metrics.
//
// Pass a nil reg to create metrics without registering them.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcctl_registry_services_created_total",
				Help: "Total services created by the registry",
			},
			[]string{"service"},
		),

		DestroyedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcctl_registry_services_destroyed_total",
				Help: "Total services destroyed by the registry",
			},
			[]string{"service"},
		),

		FailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "svcctl_registry_failures_total",
				Help: "Total slots moved to the exception state, by phase and error kind",
			},
			[]string{"phase", "kind"},
		),

		LiveServices: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "svcctl_registry_live_services",
				Help: "Current number of live service instances",
			},
		),

		CreateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "svcctl_registry_create_duration_seconds",
				Help:    "Service creation duration in seconds, including requirements",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.CreatedTotal,
			m.DestroyedTotal,
			m.FailuresTotal,
			m.LiveServices,
			m.CreateDuration,
		)
	}

	return m
}

// ServiceCreated records a successful creation.
func (m *Metrics) ServiceCreated(service string, d time.Duration) {
	if m == nil {
		return
	}
	m.CreatedTotal.WithLabelValues(service).Inc()
	m.CreateDuration.WithLabelValues(service).Observe(d.Seconds())
	m.LiveServices.Inc()
}

// ServiceDestroyed records a successful destruction.
func (m *Metrics) ServiceDestroyed(service string) {
	if m == nil {
		return
	}
	m.DestroyedTotal.WithLabelValues(service).Inc()
	m.LiveServices.Dec()
}

// ServiceGone records an instance dropped outside the destroy algorithm.
func (m *Metrics) ServiceGone() {
	if m == nil {
		return
	}
	m.LiveServices.Dec()
}

// Failure records a slot moving to the exception state.
func (m *Metrics) Failure(phase Op, kind string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(string(phase), kind).Inc()
}
