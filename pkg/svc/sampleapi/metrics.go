package sampleapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the Prometheus collectors the service exposes on /metrics.
// Each server carries its own registry so tests can run servers in parallel
// without duplicate-registration panics.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestsActive  prometheus.Gauge
	errorsTotal     *prometheus.CounterVec
	versionInfo     *prometheus.GaugeVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, endpoint and status code.",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency by method and endpoint.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		requestsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_active",
				Help: "Number of HTTP requests currently being served.",
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_errors_total",
				Help: "Total application errors by type.",
			},
			[]string{"type"},
		),
		versionInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "app_version_info",
				Help: "Application version info, value is always 1.",
			},
			[]string{"version"},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsActive,
		m.errorsTotal,
		m.versionInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// setVersion publishes the running version as an info-style gauge.
func (m *metrics) setVersion(version string) {
	m.versionInfo.WithLabelValues(version).Set(1)
}
