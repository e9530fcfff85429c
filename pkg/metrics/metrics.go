// Package metrics exposes Prometheus counters for the explorer flows.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hk_explorer"

// Flow outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	flows         *prometheus.CounterVec
	flowLatency   *prometheus.HistogramVec
	verifications *prometheus.CounterVec
	imports       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		flows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_requests_total",
			Help:      "Flow invocations by flow and outcome.",
		}, []string{"flow", "outcome"}),
		flowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_duration_seconds",
			Help:      "Flow latency by flow.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"flow"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "photo_verifications_total",
			Help:      "Photo verification results by outcome.",
		}, []string{"outcome"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_challenges_total",
			Help:      "Imported challenges by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.flows, m.flowLatency, m.verifications, m.imports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFlow records one invocation of flow that began at start.
func (m *Metrics) ObserveFlow(flow, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.flows.WithLabelValues(flow, outcome).Inc()
	m.flowLatency.WithLabelValues(flow).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Imported(imported, skipped int) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues("imported").Add(float64(imported))
	m.imports.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
