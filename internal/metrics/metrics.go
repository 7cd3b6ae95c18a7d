// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeMatch   = "match"
	OutcomeNoMatch = "no_match"
	OutcomeError   = "error"
)

// Cache results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

type Metrics struct {
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	HTTPInFlight   prometheus.Gauge
	VoucherLookups *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// Total HTTP requests partitioned by method, route, and status code
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		HTTPInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_inflight_requests",
				Help: "Number of HTTP requests currently being served",
			},
		),
		VoucherLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voucher_lookups_total",
				Help: "Voucher selections by outcome",
			},
			[]string{"outcome"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "voucher_cache_lookups_total",
				Help: "Voucher result cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Lookup counts one voucher selection. Safe on a nil receiver.
func (m *Metrics) Lookup(outcome string) {
	if m == nil {
		return
	}
	m.VoucherLookups.WithLabelValues(outcome).Inc()
}

// Cache counts one cache lookup. Safe on a nil receiver.
func (m *Metrics) Cache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
