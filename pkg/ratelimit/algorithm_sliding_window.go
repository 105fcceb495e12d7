package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SlidingWindowAlgorithm implements sliding-window rate limiting over
// individual request timestamps.
//
// For every check it computes the window start (now - window), has the
// store prune timestamps that fell out of the window, and admits the
// request only while the pruned count is below the limit. Admitted requests
// are recorded; denied requests are not, so they never consume quota.
//
// The algorithm also protects against the system clock moving backwards:
// the last observed timestamp per key is tracked, and a regressed clock
// reading is clamped to it so clients cannot gain quota from clock skew.
// Clamp entries that fell out of the window are swept lazily during
// checks, so the map stays proportional to the active key set.
type SlidingWindowAlgorithm struct {
	clock Clock

	mu             sync.Mutex
	lastTimestamps map[string]time.Time
	lastSweep      time.Time
}

// NewSlidingWindowAlgorithm creates a sliding window algorithm using the
// given clock (SystemClock when nil).
func NewSlidingWindowAlgorithm(clock Clock) *SlidingWindowAlgorithm {
	if clock == nil {
		clock = &SystemClock{}
	}
	return &SlidingWindowAlgorithm{
		clock:          clock,
		lastTimestamps: make(map[string]time.Time),
	}
}

// IsAllowed checks whether a request for key should be admitted.
//
// The invariant maintained: for any key, the number of admitted requests
// recorded in any trailing window of the configured length is at most
// limit, measured at any instant.
func (a *SlidingWindowAlgorithm) IsAllowed(
	ctx context.Context,
	key string,
	store Store,
	limit int,
	window time.Duration,
) (*Decision, error) {
	now := a.validTimestamp(key, window)
	cutoff := now.Add(-window)
	resetAt := now.Add(window)

	allowed, count, err := store.CheckAndAdd(ctx, key, now, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("check and add request: %w", err)
	}

	if allowed {
		remaining := limit - count
		if remaining < 0 {
			remaining = 0
		}
		return NewAllowedDecision(key, "unknown", limit, remaining, resetAt), nil
	}

	return NewDeniedDecision(key, "unknown", limit, resetAt, resetAt.Sub(now)), nil
}

// validTimestamp returns the current time clamped so it never moves
// backwards for a given key. A warning is logged when skew is detected.
func (a *SlidingWindowAlgorithm) validTimestamp(key string, window time.Duration) time.Time {
	now := a.clock.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sweepStaleClamps(now, window)

	if last, ok := a.lastTimestamps[key]; ok && now.Before(last) {
		slog.Warn("clock skew detected, clamping timestamp",
			slog.String("key", key),
			slog.Time("now", now),
			slog.Time("last_seen", last))
		return last
	}

	a.lastTimestamps[key] = now
	return now
}

// sweepStaleClamps drops clamp entries older than the window, at most once
// per window length. A timestamp that already aged out of every window
// cannot influence admission, so forgetting it is safe. Must be called with
// the lock held.
func (a *SlidingWindowAlgorithm) sweepStaleClamps(now time.Time, window time.Duration) {
	if now.Sub(a.lastSweep) < window {
		return
	}

	cutoff := now.Add(-window)
	for key, last := range a.lastTimestamps {
		if last.Before(cutoff) {
			delete(a.lastTimestamps, key)
		}
	}
	a.lastSweep = now
}
