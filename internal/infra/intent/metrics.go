package intent

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Extraction outcome labels. Provider errors and malformed model output
// both resolve to the same fallback intent, but they are counted
// separately so dashboards can tell a flaky provider from a model that
// stopped following the output contract.
const (
	OutcomeOK            = "ok"
	OutcomeMalformed     = "malformed"
	OutcomeProviderError = "provider_error"
)

// MetricsRecorder records intent extraction metrics.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// RecordOutcome counts one extraction attempt by provider and outcome.
	RecordOutcome(provider, outcome string)

	// RecordDuration records the wall time of one provider call.
	RecordDuration(provider string, duration time.Duration)
}

// NoopMetrics discards all recordings.
type NoopMetrics struct{}

// NewNoopMetrics creates a metrics recorder that does nothing.
func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (*NoopMetrics) RecordOutcome(provider, outcome string)                {}
func (*NoopMetrics) RecordDuration(provider string, duration time.Duration) {}

// PrometheusMetrics implements MetricsRecorder using Prometheus.
type PrometheusMetrics struct {
	outcomes  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics creates a Prometheus-based metrics recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "intent_extractions_total",
				Help: "Total intent extraction attempts by provider and outcome",
			}, []string{"provider", "outcome"}),
			durations: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "intent_extraction_duration_seconds",
				Help:    "Wall time of intent extraction provider calls",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordOutcome implements MetricsRecorder.
func (p *PrometheusMetrics) RecordOutcome(provider, outcome string) {
	p.outcomes.WithLabelValues(provider, outcome).Inc()
}

// RecordDuration implements MetricsRecorder.
func (p *PrometheusMetrics) RecordDuration(provider string, duration time.Duration) {
	p.durations.WithLabelValues(provider).Observe(duration.Seconds())
}
