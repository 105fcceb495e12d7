// Package movie provides HTTP handlers for movie discovery: free-text
// search and detail lookup.
package movie

import (
	"context"

	"cinefind/internal/domain/entity"
	"cinefind/internal/usecase/discover"
)

// Service is the slice of the discovery use case the handlers need.
type Service interface {
	Search(ctx context.Context, query string) (discover.SearchResult, error)
	MovieDetail(ctx context.Context, movieID int) (entity.MovieDetail, error)
}

// searchRequest is the POST /api/search request body.
type searchRequest struct {
	Query string `json:"query"`
}
