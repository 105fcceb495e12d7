package config

import (
	"log/slog"
	"time"
)

// RateLimitConfig holds configuration for per-client admission control.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active at all.
	Enabled bool

	// IPLimit is the maximum number of admitted requests per client IP
	// within IPWindow.
	IPLimit int

	// IPWindow is the sliding window length for IP rate limiting.
	IPWindow time.Duration

	// MaxActiveKeys caps the number of client keys tracked in memory.
	// Least recently used keys are evicted beyond this count.
	MaxActiveKeys int
}

// LoadRateLimitConfig loads rate limiting configuration from environment
// variables. Invalid values log a warning and fall back to defaults rather
// than failing startup.
//
// Environment variables:
//   - RATELIMIT_ENABLED: enable/disable rate limiting (default: true)
//   - RATELIMIT_IP_LIMIT: admitted requests per window (default: 10)
//   - RATELIMIT_IP_WINDOW: sliding window length (default: 10s)
//   - RATELIMIT_MAX_KEYS: maximum tracked client keys (default: 10000)
func LoadRateLimitConfig() (*RateLimitConfig, error) {
	cfg := &RateLimitConfig{}

	cfg.Enabled = GetEnvBool("RATELIMIT_ENABLED", true)

	ipLimit := GetEnvInt("RATELIMIT_IP_LIMIT", 10)
	if ipLimit <= 0 {
		slog.Warn("invalid RATELIMIT_IP_LIMIT, using default",
			slog.Int("value", ipLimit),
			slog.Int("default", 10))
		ipLimit = 10
	}
	cfg.IPLimit = ipLimit

	ipWindow := GetEnvDuration("RATELIMIT_IP_WINDOW", 10*time.Second)
	if err := ValidatePositiveDuration(ipWindow); err != nil {
		slog.Warn("invalid RATELIMIT_IP_WINDOW, using default",
			slog.String("value", ipWindow.String()),
			slog.String("default", "10s"),
			slog.String("error", err.Error()))
		ipWindow = 10 * time.Second
	}
	cfg.IPWindow = ipWindow

	maxKeys := GetEnvInt("RATELIMIT_MAX_KEYS", 10000)
	if maxKeys <= 0 {
		slog.Warn("invalid RATELIMIT_MAX_KEYS, using default",
			slog.Int("value", maxKeys),
			slog.Int("default", 10000))
		maxKeys = 10000
	}
	cfg.MaxActiveKeys = maxKeys

	return cfg, nil
}
