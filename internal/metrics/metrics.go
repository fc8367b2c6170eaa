package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors of the coach directory.
type Metrics struct {
	FallbackTotal     *prometheus.CounterVec
	ResponsesTotal    *prometheus.CounterVec
	RefreshTotal      *prometheus.CounterVec
	RefreshDuration   prometheus.Histogram
	CacheRecords      prometheus.Gauge
	EventsTotal       *prometheus.CounterVec
	RemoteLookupTotal *prometheus.CounterVec
}

// New registers the collectors once and returns the shared instance.
//
// Metrics:
//   - coach_directory_fallback_total{operation,reason}
//   - coach_directory_responses_total{operation,source}
//   - coach_directory_refresh_total{source}
//   - coach_directory_refresh_duration_seconds
//   - coach_directory_cache_records
//   - coach_directory_events_total{type,result}
//   - coach_directory_remote_lookup_total{result}
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			FallbackTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coach_directory_fallback_total",
					Help: "Requests answered by the local cache after the remote tier failed",
				},
				[]string{"operation", "reason"},
			),
			ResponsesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coach_directory_responses_total",
					Help: "Directory responses by the tier that produced them",
				},
				[]string{"operation", "source"},
			),
			RefreshTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coach_directory_refresh_total",
					Help: "Cache refreshes by the source that populated the cache",
				},
				[]string{"source"}, // "bulk", "snapshot", "synthetic", "stale"
			),
			RefreshDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "coach_directory_refresh_duration_seconds",
					Help:    "Duration of cache refreshes",
					Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
				},
			),
			CacheRecords: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "coach_directory_cache_records",
					Help: "Number of records held by the local cache",
				},
			),
			EventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coach_directory_events_total",
					Help: "Directory events received from the event bus",
				},
				[]string{"type", "result"},
			),
			RemoteLookupTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "coach_directory_remote_lookup_total",
					Help: "Single-coach remote lookups by outcome",
				},
				[]string{"result"}, // "found", "not_found", "timeout", "error"
			),
		}
	})

	return globalMetrics
}

// RecordFallback counts a transition from the remote tier to the cache.
func (m *Metrics) RecordFallback(operation, reason string) {
	m.FallbackTotal.WithLabelValues(operation, reason).Inc()
}

// RecordResponse counts a response by source tier.
func (m *Metrics) RecordResponse(operation, source string) {
	m.ResponsesTotal.WithLabelValues(operation, source).Inc()
}

// RecordRefresh records a finished cache refresh.
func (m *Metrics) RecordRefresh(source string, durationSeconds float64, records int) {
	m.RefreshTotal.WithLabelValues(source).Inc()
	m.RefreshDuration.Observe(durationSeconds)
	m.CacheRecords.Set(float64(records))
}

// RecordEvent counts an applied or rejected bus event.
func (m *Metrics) RecordEvent(eventType, result string) {
	m.EventsTotal.WithLabelValues(eventType, result).Inc()
}

// RecordRemoteLookup counts a single-coach remote lookup outcome.
func (m *Metrics) RecordRemoteLookup(result string) {
	m.RemoteLookupTotal.WithLabelValues(result).Inc()
}
