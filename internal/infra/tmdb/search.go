package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"cinefind/internal/domain/entity"
	"cinefind/pkg/cache"
)

// searchResult is the wire shape of one entry in a TMDB search page.
type searchResult struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage *float64 `json:"vote_average"`
	PosterPath  *string  `json:"poster_path"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// SearchGateway performs title searches against TMDB with a short-TTL
// cache in front. Concurrent lookups for the same term are collapsed into
// a single upstream call.
type SearchGateway struct {
	client       *Client
	cache        *cache.TTLCache[string, []entity.MovieSummary]
	ttl          time.Duration
	imageBaseURL string
	group        singleflight.Group
}

// NewSearchGateway creates a search gateway over the given client and
// cache. The cache is injected so callers control its bounds and metrics.
func NewSearchGateway(client *Client, c *cache.TTLCache[string, []entity.MovieSummary], cfg Config) *SearchGateway {
	return &SearchGateway{
		client:       client,
		cache:        c,
		ttl:          cfg.SearchCacheTTL,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Search returns the first page of TMDB title matches for the term.
//
// The term is trimmed and lowercased before use, both as the cache key and
// as the query sent upstream, so "Inception" and "  inception  " share one
// entry. An empty result page is cached like any other. Upstream is called
// at most once per term per TTL window, and never retried.
func (g *SearchGateway) Search(ctx context.Context, term string) ([]entity.MovieSummary, error) {
	key := strings.ToLower(strings.TrimSpace(term))

	if cached, ok := g.cache.Get(key); ok {
		return cached, nil
	}

	v, err, shared := g.group.Do(key, func() (interface{}, error) {
		results, err := g.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		g.cache.Set(key, results, g.ttl)
		return results, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		slog.DebugContext(ctx, "search request coalesced",
			slog.String("term", key))
	}

	return v.([]entity.MovieSummary), nil
}

func (g *SearchGateway) fetch(ctx context.Context, term string) ([]entity.MovieSummary, error) {
	params := url.Values{}
	params.Set("query", term)
	params.Set("include_adult", "false")
	params.Set("page", "1")

	body, status, err := g.client.get(ctx, "/search/movie", params)
	if err != nil {
		return nil, mapTransportError(err, msgSearchTimeout, "TMDB request failed")
	}
	if status != 200 {
		return nil, mapStatusError(status, body)
	}

	var page searchResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &UpstreamError{
			StatusCode: 502,
			Message:    fmt.Sprintf("TMDB returned malformed response: %v", err),
		}
	}

	summaries := make([]entity.MovieSummary, 0, len(page.Results))
	for _, m := range page.Results {
		summaries = append(summaries, g.normalize(m))
	}
	return summaries, nil
}

// normalize converts a wire search result into a MovieSummary. The
// release year is the leading four characters of the release date, and
// the poster URL is built against the w342 CDN size when a poster exists.
func (g *SearchGateway) normalize(m searchResult) entity.MovieSummary {
	year := m.ReleaseDate
	if len(year) > 4 {
		year = year[:4]
	}

	var poster *string
	if m.PosterPath != nil && *m.PosterPath != "" {
		u := g.imageBaseURL + "/" + posterSizeSearch + *m.PosterPath
		poster = &u
	}

	return entity.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: year,
		Rating:      m.VoteAverage,
		PosterURL:   poster,
	}
}
