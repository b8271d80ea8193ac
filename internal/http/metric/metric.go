package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP server instruments.
type Metrics struct {
	InflightRequests prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	Panics           prometheus.Counter
}

// New registers the HTTP instruments on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InflightRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests being served.",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Panics: factory.NewCounter(prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Handler panics recovered by the server.",
		}),
	}
}
