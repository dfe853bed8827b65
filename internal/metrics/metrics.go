// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitbill/internal/calculator"
)

// Metrics groups the collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	Calculations       *prometheus.CounterVec
	CalculationSeconds prometheus.Histogram
	SkippedReferences  *prometheus.CounterVec
	RPCRequests        *prometheus.CounterVec
	RPCSeconds         *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, so tests can build as many
// instances as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "calculations_total",
			Help:      "Settlement calculations run, by caller.",
		}, []string{"source"}),
		CalculationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitbill",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent in the settlement engine.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		SkippedReferences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "skipped_references_total",
			Help:      "Participant references skipped during calculation, by kind.",
		}, []string{"kind"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitbill",
			Name:      "rpc_requests_total",
			Help:      "RPC requests handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "splitbill",
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	m.registry.MustRegister(
		m.Calculations,
		m.CalculationSeconds,
		m.SkippedReferences,
		m.RPCRequests,
		m.RPCSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCalculation records one engine run. A nil *Metrics is a no-op.
func (m *Metrics) ObserveCalculation(source string, elapsed time.Duration, diags []calculator.Diagnostic) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(source).Inc()
	m.CalculationSeconds.Observe(elapsed.Seconds())
	for _, d := range diags {
		m.SkippedReferences.WithLabelValues(string(d.Kind)).Inc()
	}
}

// ObserveRPC records one RPC. A nil *Metrics is a no-op.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(procedure, code).Inc()
	m.RPCSeconds.WithLabelValues(procedure).Observe(elapsed.Seconds())
}
