package ratelimit

import (
	"fmt"
	"time"
)

// Decision represents the result of a rate limit check, carrying the
// verdict plus the metadata clients need to understand the current limit
// state (for X-RateLimit-* and Retry-After headers).
type Decision struct {
	// Key is the identifier the check was performed for (e.g. a client IP).
	Key string

	// Allowed indicates whether the request should be admitted.
	Allowed bool

	// Limit is the maximum number of admitted requests per window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window no longer constrains the client.
	ResetAt time.Time

	// RetryAfter is how long a denied client should wait before retrying.
	RetryAfter time.Duration

	// LimiterType identifies which limiter produced this decision
	// (e.g. "ip").
	LimiterType string
}

// String returns a human-readable representation of the decision.
func (d *Decision) String() string {
	if d.Allowed {
		return fmt.Sprintf("Decision{Allowed: true, Key: %s, Remaining: %d/%d}",
			d.Key, d.Remaining, d.Limit)
	}
	return fmt.Sprintf("Decision{Allowed: false, Key: %s, RetryAfter: %s}",
		d.Key, d.RetryAfter)
}

// ResetAtUnix returns the reset time as a Unix timestamp, for the
// X-RateLimit-Reset header.
func (d *Decision) ResetAtUnix() int64 {
	return d.ResetAt.Unix()
}

// RetryAfterSeconds returns the retry delay in whole seconds, never
// negative, for the Retry-After header.
func (d *Decision) RetryAfterSeconds() int64 {
	seconds := int64(d.RetryAfter.Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

// NewAllowedDecision creates a Decision for an admitted request.
func NewAllowedDecision(key, limiterType string, limit, remaining int, resetAt time.Time) *Decision {
	return &Decision{
		Key:         key,
		Allowed:     true,
		Limit:       limit,
		Remaining:   remaining,
		ResetAt:     resetAt,
		LimiterType: limiterType,
	}
}

// NewDeniedDecision creates a Decision for a denied request.
func NewDeniedDecision(key, limiterType string, limit int, resetAt time.Time, retryAfter time.Duration) *Decision {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Decision{
		Key:         key,
		Allowed:     false,
		Limit:       limit,
		Remaining:   0,
		ResetAt:     resetAt,
		RetryAfter:  retryAfter,
		LimiterType: limiterType,
	}
}
