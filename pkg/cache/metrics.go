package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics defines the interface for recording cache activity.
//
// Implementations can use Prometheus or custom metrics systems; NoopMetrics
// discards everything and is the default.
type Metrics interface {
	// RecordHit records a lookup that returned a live entry.
	RecordHit(cache string)

	// RecordMiss records a lookup that found no live entry.
	RecordMiss(cache string)

	// RecordExpired records an entry removed during lookup because its TTL
	// had elapsed.
	RecordExpired(cache string)

	// RecordEviction records entries removed to make room at capacity.
	RecordEviction(cache string, count int)

	// SetEntryCount records the current number of live entries.
	SetEntryCount(cache string, count int)
}

// NoopMetrics is a Metrics implementation that discards all measurements.
type NoopMetrics struct{}

func (m *NoopMetrics) RecordHit(string)           {}
func (m *NoopMetrics) RecordMiss(string)          {}
func (m *NoopMetrics) RecordExpired(string)       {}
func (m *NoopMetrics) RecordEviction(string, int) {}
func (m *NoopMetrics) SetEntryCount(string, int)  {}

var (
	promOnce sync.Once

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheExpired   *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheEntries   *prometheus.GaugeVec
)

// initPrometheusMetrics registers the cache metric collectors exactly once.
// Multiple cache instances share the same collectors, distinguished by the
// "cache" label.
func initPrometheusMetrics() {
	promOnce.Do(func() {
		cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache lookups that returned a live entry.",
		}, []string{"cache"})

		cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache lookups that found no live entry.",
		}, []string{"cache"})

		cacheExpired = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_expired_entries_total",
			Help: "Total number of entries removed at lookup because their TTL elapsed.",
		}, []string{"cache"})

		cacheEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries evicted to enforce the capacity bound.",
		}, []string{"cache"})

		cacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries held by the cache.",
		}, []string{"cache"})
	})
}

// PrometheusMetrics is a Metrics implementation backed by Prometheus
// collectors on the default registry.
type PrometheusMetrics struct{}

// NewPrometheusMetrics creates a PrometheusMetrics, registering the shared
// collectors on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	initPrometheusMetrics()
	return &PrometheusMetrics{}
}

func (m *PrometheusMetrics) RecordHit(cache string) {
	cacheHits.WithLabelValues(cache).Inc()
}

func (m *PrometheusMetrics) RecordMiss(cache string) {
	cacheMisses.WithLabelValues(cache).Inc()
}

func (m *PrometheusMetrics) RecordExpired(cache string) {
	cacheExpired.WithLabelValues(cache).Inc()
}

func (m *PrometheusMetrics) RecordEviction(cache string, count int) {
	cacheEvictions.WithLabelValues(cache).Add(float64(count))
}

func (m *PrometheusMetrics) SetEntryCount(cache string, count int) {
	cacheEntries.WithLabelValues(cache).Set(float64(count))
}
