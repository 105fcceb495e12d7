package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration validates that a duration is strictly positive.
// Used for timeouts, TTLs, and rate-limit windows where zero would disable
// the protection entirely.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateDurationRange validates that a duration is within [min, max]
// inclusive.
//
// Example:
//
//	if err := ValidateDurationRange(ttl, time.Second, time.Hour); err != nil {
//	    return fmt.Errorf("invalid cache TTL: %w", err)
//	}
func ValidateDurationRange(d, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if d < min {
		return fmt.Errorf("duration %v is below minimum %v", d, min)
	}
	if d > max {
		return fmt.Errorf("duration %v exceeds maximum %v", d, max)
	}
	return nil
}
