// Package metrics exposes Prometheus instrumentation for challenge generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradle"

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Price data
	PriceFetches   *prometheus.CounterVec
	FetchLatency   *prometheus.HistogramVec
	FallbackSeries *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec

	// Generation
	GenerationRuns     *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	CandidatesTried    prometheus.Histogram
	LatestDay          prometheus.Gauge

	// Delivery
	NotificationsSent *prometheus.CounterVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		PriceFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetches_total",
			Help:      "Price fetches by source and result",
		}, []string{"source", "result"}),
		FetchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fetch_duration_seconds",
			Help:      "Price fetch latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"source"}),
		FallbackSeries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collector",
			Name:      "fallback_series_total",
			Help:      "Synthetic series substituted for real data by reason",
		}, []string{"reason"}),
		CacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by cache name",
		}, []string{"cache"}),

		GenerationRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "runs_total",
			Help:      "Daily challenge generation runs by status",
		}, []string{"status"}),
		GenerationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Daily challenge generation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		CandidatesTried: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "candidates_tried",
			Help:      "Number of symbol/range candidates consumed per generation",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 30, 50},
		}),
		LatestDay: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "latest_day",
			Help:      "Day number of the most recent challenge",
		}),

		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "messages_total",
			Help:      "Telegram messages by result",
		}, []string{"result"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFetch records one upstream price fetch.
func (m *Metrics) RecordFetch(source string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PriceFetches.WithLabelValues(source, result).Inc()
	m.FetchLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordFallback records a synthetic series substitution.
func (m *Metrics) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.FallbackSeries.WithLabelValues(reason).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(cache).Inc()
}

// RecordGeneration records a finished generation run.
func (m *Metrics) RecordGeneration(status string, candidates int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationRuns.WithLabelValues(status).Inc()
	m.GenerationDuration.Observe(elapsed.Seconds())
	if candidates > 0 {
		m.CandidatesTried.Observe(float64(candidates))
	}
}

// SetLatestDay publishes the newest challenge day.
func (m *Metrics) SetLatestDay(day int) {
	if m == nil {
		return
	}
	m.LatestDay.Set(float64(day))
}

// RecordNotification records a Telegram send attempt.
func (m *Metrics) RecordNotification(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.NotificationsSent.WithLabelValues(result).Inc()
}
