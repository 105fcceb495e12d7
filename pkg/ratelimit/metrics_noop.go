package ratelimit

import "time"

// NoopMetrics is a Metrics implementation that discards all measurements.
// Useful in tests and when metrics collection is disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a no-op metrics recorder.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (m *NoopMetrics) RecordAllowed(limiterType string) {}

func (m *NoopMetrics) RecordDenied(limiterType string) {}

func (m *NoopMetrics) RecordCheckDuration(limiterType string, duration time.Duration) {}

func (m *NoopMetrics) SetActiveKeys(limiterType string, count int) {}
