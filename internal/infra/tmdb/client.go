// Package tmdb provides gateways to The Movie Database (TMDB) v3 API:
// title search and movie details with credits and videos. Results are
// normalized into domain entities, cached with short TTLs, and fetched
// through an outbound rate limiter that respects TMDB's fair-use limit.
// Upstream calls are made exactly once per lookup; failures map to
// gateway errors instead of being retried.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client is a thin HTTP client for the TMDB v3 API. It owns the API key,
// the per-call timeout, and the outbound rate limiter shared by all
// gateways.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	limiter    *rate.Limiter
}

// NewClient creates a TMDB client from the given configuration.
func NewClient(cfg Config) *Client {
	interval := cfg.RateWindow / time.Duration(cfg.RateLimit)
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		limiter:    rate.NewLimiter(rate.Every(interval), cfg.RateLimit),
	}
}

// get performs a single GET against the TMDB API. The api_key and
// language parameters are added to every request. It returns the response
// body and status code; transport failures come back as errors for the
// caller to map.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return body, resp.StatusCode, nil
}
