package http

import (
	"net/http"
	"time"

	"cinefind/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RateLimiterInfo exposes the limiter state the health endpoint reports.
type RateLimiterInfo interface {
	Enabled() bool
	Limit() int
	Window() time.Duration
	ActiveKeys(r *http.Request) (int, error)
}

// CacheInfo exposes cache occupancy for the health endpoint.
type CacheInfo interface {
	Len() int
}

// HealthHandler reports liveness plus operational details: extractor
// provider, rate limiter state, and cache occupancy. The service has no
// hard dependencies to probe, so the endpoint always reports healthy once
// the process is serving.
type HealthHandler struct {
	Version           string
	ExtractorProvider string
	RateLimiter       RateLimiterInfo
	SearchCache       CacheInfo
	DetailCache       CacheInfo
}

// ServeHTTP returns the application health status.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	checks["extractor"] = CheckStatus{
		Status: "healthy",
		Details: map[string]interface{}{
			"provider": h.ExtractorProvider,
		},
	}

	if h.RateLimiter != nil {
		details := map[string]interface{}{
			"enabled": h.RateLimiter.Enabled(),
			"limit":   h.RateLimiter.Limit(),
			"window":  h.RateLimiter.Window().String(),
		}
		if keys, err := h.RateLimiter.ActiveKeys(r); err == nil {
			details["active_keys"] = keys
		}
		checks["rate_limiter"] = CheckStatus{Status: "healthy", Details: details}
	}

	if h.SearchCache != nil && h.DetailCache != nil {
		checks["caches"] = CheckStatus{
			Status: "healthy",
			Details: map[string]interface{}{
				"search_entries": h.SearchCache.Len(),
				"detail_entries": h.DetailCache.Len(),
			},
		}
	}

	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}
