// Package metrics provides ambient Prometheus instrumentation for the
// session manager, router, and provider error taxonomy — observability is
// carried regardless of spec.md's scope boundaries, per the process rules
// for ambient concerns.
//
// Grounded on the teacher's pkg/observability/metrics.go wiring pattern,
// trimmed to the counters/gauges this module's components exercise.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every counter/gauge this module registers. The zero
// value is not usable; construct with New.
type Metrics struct {
	registry *prometheus.Registry

	sessionsActive    prometheus.Gauge
	sessionsCreated   prometheus.Counter
	sessionsClosed    prometheus.Counter
	sessionsReaped    prometheus.Counter
	routerFallbacks   *prometheus.CounterVec
	providerErrors    *prometheus.CounterVec
}

// New builds a fresh, isolated Prometheus registry with every metric
// registered. Using a dedicated registry (rather than the global default)
// keeps repeated test construction safe.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "asklly",
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of currently registered sessions.",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "asklly",
			Subsystem: "session",
			Name:      "created_total",
			Help:      "Sessions successfully created.",
		}),
		sessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "asklly",
			Subsystem: "session",
			Name:      "closed_total",
			Help:      "Sessions closed by explicit request.",
		}),
		sessionsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "asklly",
			Subsystem: "session",
			Name:      "reaped_total",
			Help:      "Sessions closed by the idle reaper.",
		}),
		routerFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asklly",
			Subsystem: "router",
			Name:      "fallbacks_total",
			Help:      "Router fallbacks by reason (keyword, casual).",
		}, []string{"reason"}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asklly",
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Provider errors by classified kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.sessionsActive,
		m.sessionsCreated,
		m.sessionsClosed,
		m.sessionsReaped,
		m.routerFallbacks,
		m.providerErrors,
	)
	return m
}

// Registry exposes the underlying Prometheus registry for an HTTP
// /metrics handler (promhttp.HandlerFor), wired by cmd/asklly.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) SessionCreated() { m.sessionsCreated.Inc(); m.sessionsActive.Inc() }
func (m *Metrics) SessionClosed()  { m.sessionsClosed.Inc(); m.sessionsActive.Dec() }
func (m *Metrics) SessionReaped()  { m.sessionsReaped.Inc(); m.sessionsActive.Dec() }

func (m *Metrics) RouterFallback(reason string) { m.routerFallbacks.WithLabelValues(reason).Inc() }
func (m *Metrics) ProviderError(kind string)    { m.providerErrors.WithLabelValues(kind).Inc() }
