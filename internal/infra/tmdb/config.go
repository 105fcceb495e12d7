package tmdb

import (
	"fmt"
	"time"

	"cinefind/pkg/cache"
	"cinefind/pkg/config"
)

// Defaults for the TMDB client. TMDB's published fair-use limit is around
// 40 requests per 10 seconds, so the outbound limiter defaults to that.
const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
	defaultLanguage     = "en-US"
	defaultTimeout      = 10 * time.Second

	defaultSearchCacheTTL = 60 * time.Second
	defaultDetailCacheTTL = 300 * time.Second

	defaultRateLimit  = 40
	defaultRateWindow = 10 * time.Second
)

// Poster image widths used by the CDN URL builder.
const (
	posterSizeSearch = "w342"
	posterSizeDetail = "w500"
)

// Config holds configuration for the TMDB client and its gateways.
type Config struct {
	// APIKey is the TMDB v3 API key. Required.
	APIKey string

	// BaseURL is the TMDB API endpoint.
	BaseURL string

	// ImageBaseURL is the poster CDN prefix, without a size segment.
	ImageBaseURL string

	// Language is sent with every request.
	Language string

	// Timeout bounds a single upstream call.
	Timeout time.Duration

	// SearchCacheTTL is how long search result pages stay fresh.
	SearchCacheTTL time.Duration

	// DetailCacheTTL is how long movie detail entries stay fresh.
	DetailCacheTTL time.Duration

	// SearchCacheMaxEntries and DetailCacheMaxEntries bound the caches.
	SearchCacheMaxEntries int
	DetailCacheMaxEntries int

	// RateLimit and RateWindow throttle outbound calls to stay inside
	// TMDB's fair-use limit.
	RateLimit  int
	RateWindow time.Duration
}

// LoadConfig loads TMDB configuration from environment variables.
//
// Environment variables:
//   - TMDB_API_KEY: v3 API key (required, validated separately)
//   - TMDB_BASE_URL: API endpoint (default: https://api.themoviedb.org/3)
//   - TMDB_IMAGE_BASE_URL: poster CDN prefix (default: https://image.tmdb.org/t/p)
//   - TMDB_TIMEOUT: per-call timeout (default: 10s)
//   - TMDB_RATE_LIMIT: outbound requests per window (default: 40)
//   - CACHE_SEARCH_TTL: search cache freshness (default: 60s)
//   - CACHE_DETAIL_TTL: detail cache freshness (default: 300s)
//   - CACHE_SEARCH_MAX_ENTRIES, CACHE_DETAIL_MAX_ENTRIES: cache bounds
func LoadConfig() Config {
	return Config{
		APIKey:                config.GetEnvString("TMDB_API_KEY", ""),
		BaseURL:               config.GetEnvString("TMDB_BASE_URL", defaultBaseURL),
		ImageBaseURL:          config.GetEnvString("TMDB_IMAGE_BASE_URL", defaultImageBaseURL),
		Language:              defaultLanguage,
		Timeout:               config.GetEnvDuration("TMDB_TIMEOUT", defaultTimeout),
		SearchCacheTTL:        config.GetEnvDuration("CACHE_SEARCH_TTL", defaultSearchCacheTTL),
		DetailCacheTTL:        config.GetEnvDuration("CACHE_DETAIL_TTL", defaultDetailCacheTTL),
		SearchCacheMaxEntries: config.GetEnvInt("CACHE_SEARCH_MAX_ENTRIES", cache.DefaultMaxEntries),
		DetailCacheMaxEntries: config.GetEnvInt("CACHE_DETAIL_MAX_ENTRIES", cache.DefaultMaxEntries),
		RateLimit:             config.GetEnvInt("TMDB_RATE_LIMIT", defaultRateLimit),
		RateWindow:            defaultRateWindow,
	}
}

// Validate checks that the configuration can produce a working client.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is not set")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("tmdb base URL cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("tmdb timeout must be positive, got %v", c.Timeout)
	}
	if c.SearchCacheTTL <= 0 || c.DetailCacheTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("rate limit and window must be positive")
	}
	return nil
}
