// Package ratelimit provides framework-agnostic sliding-window rate
// limiting.
//
// The package separates storage (Store), decision logic (Algorithm), time
// (Clock), and observability (Metrics) behind interfaces so each can be
// swapped independently: in tests a fake clock and a fresh store, in
// production the system clock and the in-memory store.
package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for keeping per-key request windows.
//
// All methods must be thread-safe. The check-and-add operation is a single
// atomic step: pruning, counting, and recording happen under one lock so
// concurrent requests cannot slip past the limit.
type Store interface {
	// CheckAndAdd prunes timestamps older than cutoff for key, persists
	// the pruned window, and, only when the pruned count is below limit,
	// records timestamp as an admitted request.
	//
	// The prune is persisted whether or not the request is admitted, and a
	// denied request is never recorded, so denied traffic does not consume
	// quota.
	//
	// Returns whether the request was admitted and the number of recorded
	// timestamps remaining in the window (including this one when
	// admitted).
	CheckAndAdd(ctx context.Context, key string, timestamp, cutoff time.Time, limit int) (allowed bool, count int, err error)

	// KeyCount returns the number of keys currently tracked. Useful for
	// monitoring memory usage.
	KeyCount(ctx context.Context) (int, error)
}

// Algorithm defines the interface for rate limiting decision logic.
type Algorithm interface {
	// IsAllowed determines whether a request for key should be admitted
	// given the current state in store.
	IsAllowed(ctx context.Context, key string, store Store, limit int, window time.Duration) (*Decision, error)
}

// Metrics defines the interface for recording rate limiting activity.
type Metrics interface {
	// RecordAllowed records an admitted request.
	RecordAllowed(limiterType string)

	// RecordDenied records a denied request.
	RecordDenied(limiterType string)

	// RecordCheckDuration records how long a rate limit check took.
	RecordCheckDuration(limiterType string, duration time.Duration)

	// SetActiveKeys records the current number of tracked keys.
	SetActiveKeys(limiterType string, count int)
}

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
