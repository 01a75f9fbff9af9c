// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors for provider calls and
// pin lookups.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	Lookups          *prometheus.CounterVec
	PinsReturned     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pinmap_provider_requests_total",
			Help: "Requests sent to the search provider by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinmap_provider_request_duration_seconds",
			Help:    "Latency of search provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pinmap_lookups_total",
			Help: "Pin lookups by result",
		}, []string{"result"}),
		PinsReturned: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pinmap_pins_returned",
			Help:    "Number of pins returned per successful lookup",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 10, 20, 50},
		}),
	}
}

// ObserveProvider records one provider request.
func (m *Metrics) ObserveProvider(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveLookup records one pin lookup. n is ignored unless result is "ok".
func (m *Metrics) ObserveLookup(result string, n int) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
	if result == "ok" {
		m.PinsReturned.Observe(float64(n))
	}
}
