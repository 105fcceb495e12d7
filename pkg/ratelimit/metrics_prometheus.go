package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promOnce sync.Once

	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	activeKeys    *prometheus.GaugeVec
)

// initPrometheusMetrics registers the rate limit collectors exactly once so
// multiple limiter instances can share them.
func initPrometheusMetrics() {
	promOnce.Do(func() {
		checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ratelimit_checks_total",
			Help: "Total number of rate limit checks by limiter type and result.",
		}, []string{"limiter_type", "result"})

		checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratelimit_check_duration_seconds",
			Help:    "Duration of rate limit checks.",
			Buckets: prometheus.DefBuckets,
		}, []string{"limiter_type"})

		activeKeys = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ratelimit_active_keys",
			Help: "Current number of keys tracked by the rate limiter store.",
		}, []string{"limiter_type"})
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

func (m *PrometheusMetrics) RecordAllowed(limiterType string) {
	checksTotal.WithLabelValues(limiterType, "allowed").Inc()
}

func (m *PrometheusMetrics) RecordDenied(limiterType string) {
	checksTotal.WithLabelValues(limiterType, "denied").Inc()
}

func (m *PrometheusMetrics) RecordCheckDuration(limiterType string, duration time.Duration) {
	checkDuration.WithLabelValues(limiterType).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) SetActiveKeys(limiterType string, count int) {
	activeKeys.WithLabelValues(limiterType).Set(float64(count))
}
