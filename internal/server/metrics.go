package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	outcomes      *prometheus.CounterVec
	workersBusy   prometheus.Gauge
	envelopeBytes prometheus.Histogram
}

// NewMetrics registers the server collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "securehide",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route and status code.",
			}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "securehide",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			}, []string{"route"}),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "securehide",
				Subsystem: "codec",
				Name:      "operations_total",
				Help:      "Hide and extract calls by operation and outcome kind.",
			}, []string{"op", "outcome"}),
		workersBusy: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "securehide",
				Subsystem: "pool",
				Name:      "workers_busy",
				Help:      "Worker slots currently running a hide or extract call.",
			}),
		envelopeBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "securehide",
				Subsystem: "codec",
				Name:      "envelope_bytes",
				Help:      "Size of envelopes embedded by hide.",
				Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
			}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.outcomes,
		m.workersBusy,
		m.envelopeBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for the /metrics handler and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeOutcome(op, outcome string) {
	m.outcomes.WithLabelValues(op, outcome).Inc()
}
