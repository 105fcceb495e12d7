package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiterInfo struct {
	enabled bool
	limit   int
	window  time.Duration
	keys    int
}

func (s *stubLimiterInfo) Enabled() bool                            { return s.enabled }
func (s *stubLimiterInfo) Limit() int                               { return s.limit }
func (s *stubLimiterInfo) Window() time.Duration                    { return s.window }
func (s *stubLimiterInfo) ActiveKeys(_ *http.Request) (int, error)  { return s.keys, nil }

type stubCacheInfo struct{ n int }

func (s *stubCacheInfo) Len() int { return s.n }

func TestHealthHandler(t *testing.T) {
	h := &HealthHandler{
		Version:           "1.2.3",
		ExtractorProvider: "openai",
		RateLimiter:       &stubLimiterInfo{enabled: true, limit: 10, window: 10 * time.Second, keys: 3},
		SearchCache:       &stubCacheInfo{n: 7},
		DetailCache:       &stubCacheInfo{n: 2},
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.NotEmpty(t, body.Timestamp)

	require.Contains(t, body.Checks, "extractor")
	assert.Equal(t, "openai", body.Checks["extractor"].Details["provider"])

	require.Contains(t, body.Checks, "rate_limiter")
	limiter := body.Checks["rate_limiter"].Details
	assert.Equal(t, true, limiter["enabled"])
	assert.Equal(t, float64(10), limiter["limit"])
	assert.Equal(t, "10s", limiter["window"])
	assert.Equal(t, float64(3), limiter["active_keys"])

	require.Contains(t, body.Checks, "caches")
	assert.Equal(t, float64(7), body.Checks["caches"].Details["search_entries"])
}

func TestHealthHandler_WithoutOptionalComponents(t *testing.T) {
	h := &HealthHandler{Version: "dev", ExtractorProvider: "noop"}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Checks, "rate_limiter")
	assert.NotContains(t, body.Checks, "caches")
}
