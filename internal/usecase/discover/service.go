// Package discover orchestrates the movie discovery flow: intent
// extraction from a free-text query, title search, and detail lookup.
package discover

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cinefind/internal/domain/entity"
	"cinefind/internal/infra/intent"
)

// SearchGateway searches movies by title or keyword.
type SearchGateway interface {
	Search(ctx context.Context, term string) ([]entity.MovieSummary, error)
}

// DetailGateway fetches a full movie detail record.
type DetailGateway interface {
	Detail(ctx context.Context, movieID int) (entity.MovieDetail, error)
}

// SearchResult is the outcome of one discovery search: the matched
// movies plus the intent analysis that produced the search term.
type SearchResult struct {
	Results  []entity.MovieSummary `json:"results"`
	Analysis entity.QueryIntent    `json:"analysis"`
}

// Service implements the discovery use cases.
type Service struct {
	extractor intent.Extractor
	search    SearchGateway
	detail    DetailGateway
}

// NewService creates a discovery service with the given collaborators.
func NewService(extractor intent.Extractor, search SearchGateway, detail DetailGateway) *Service {
	return &Service{
		extractor: extractor,
		search:    search,
		detail:    detail,
	}
}

// Search analyzes a free-text query and returns the movies matching its
// primary search term, together with the analysis itself.
//
// Intent extraction never fails this operation; only a blank query or an
// upstream search failure does. The search term is the first extracted
// title, which the extractor guarantees to exist.
func (s *Service) Search(ctx context.Context, query string) (SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return SearchResult{}, entity.ErrInvalidInput
	}

	start := time.Now()
	analysis := s.extractor.Extract(ctx, query)
	term := analysis.SearchTerm(query)

	slog.InfoContext(ctx, "query analyzed",
		slog.String("term", term),
		slog.Int("titles", len(analysis.Titles)),
		slog.Int("keywords", len(analysis.Keywords)),
		slog.Duration("analysis_duration", time.Since(start)))

	results, err := s.search.Search(ctx, term)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Results: results, Analysis: analysis}, nil
}

// MovieDetail returns the full detail record for a movie.
func (s *Service) MovieDetail(ctx context.Context, movieID int) (entity.MovieDetail, error) {
	if movieID <= 0 {
		return entity.MovieDetail{}, entity.ErrInvalidInput
	}
	return s.detail.Detail(ctx, movieID)
}
