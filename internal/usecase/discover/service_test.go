package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinefind/internal/domain/entity"
)

type stubExtractor struct {
	intent entity.QueryIntent
	got    string
}

func (s *stubExtractor) Extract(_ context.Context, query string) entity.QueryIntent {
	s.got = query
	return s.intent
}

type stubSearch struct {
	results []entity.MovieSummary
	err     error
	term    string
}

func (s *stubSearch) Search(_ context.Context, term string) ([]entity.MovieSummary, error) {
	s.term = term
	return s.results, s.err
}

type stubDetail struct {
	detail entity.MovieDetail
	err    error
	id     int
}

func (s *stubDetail) Detail(_ context.Context, movieID int) (entity.MovieDetail, error) {
	s.id = movieID
	return s.detail, s.err
}

func TestService_Search_UsesFirstTitle(t *testing.T) {
	extractor := &stubExtractor{intent: entity.QueryIntent{
		Titles:   []string{"Inception", "Tenet"},
		Keywords: []string{"mind-bending"},
	}}
	search := &stubSearch{results: []entity.MovieSummary{{ID: 27205, Title: "Inception"}}}
	svc := NewService(extractor, search, &stubDetail{})

	result, err := svc.Search(context.Background(), "mind-bending sci-fi like inception")
	require.NoError(t, err)

	assert.Equal(t, "mind-bending sci-fi like inception", extractor.got)
	assert.Equal(t, "Inception", search.term)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, []string{"Inception", "Tenet"}, result.Analysis.Titles)
}

func TestService_Search_KeywordFallbackFlow(t *testing.T) {
	// The extractor normalizes a title-less analysis so its first title
	// is the first keyword; the search term follows it.
	extractor := &stubExtractor{intent: entity.QueryIntent{
		Titles:   []string{"memory loss"},
		Keywords: []string{"memory loss", "romance"},
	}}
	search := &stubSearch{results: []entity.MovieSummary{{ID: 9702, Title: "50 First Dates"}}}
	svc := NewService(extractor, search, &stubDetail{})

	result, err := svc.Search(context.Background(), "a guy forgets his memory every day and falls in love")
	require.NoError(t, err)

	assert.Equal(t, "memory loss", search.term)
	assert.Equal(t, "50 First Dates", result.Results[0].Title)
}

func TestService_Search_BlankQueryIsInvalid(t *testing.T) {
	svc := NewService(&stubExtractor{}, &stubSearch{}, &stubDetail{})

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_Search_PropagatesGatewayError(t *testing.T) {
	upstream := errors.New("TMDB returned 502")
	extractor := &stubExtractor{intent: entity.QueryIntent{Titles: []string{"Heat"}}}
	svc := NewService(extractor, &stubSearch{err: upstream}, &stubDetail{})

	_, err := svc.Search(context.Background(), "heat")
	assert.ErrorIs(t, err, upstream)
}

func TestService_Search_EmptyResultsAreNotAnError(t *testing.T) {
	extractor := &stubExtractor{intent: entity.QueryIntent{Titles: []string{"no such movie"}}}
	search := &stubSearch{results: []entity.MovieSummary{}}
	svc := NewService(extractor, search, &stubDetail{})

	result, err := svc.Search(context.Background(), "no such movie")
	require.NoError(t, err)
	assert.NotNil(t, result.Results)
	assert.Empty(t, result.Results)
}

func TestService_MovieDetail(t *testing.T) {
	detail := &stubDetail{detail: entity.MovieDetail{ID: 27205, Title: "Inception"}}
	svc := NewService(&stubExtractor{}, &stubSearch{}, detail)

	got, err := svc.MovieDetail(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, 27205, detail.id)
	assert.Equal(t, "Inception", got.Title)
}

func TestService_MovieDetail_InvalidID(t *testing.T) {
	svc := NewService(&stubExtractor{}, &stubSearch{}, &stubDetail{})

	_, err := svc.MovieDetail(context.Background(), 0)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.MovieDetail(context.Background(), -5)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_MovieDetail_NotFound(t *testing.T) {
	svc := NewService(&stubExtractor{}, &stubSearch{}, &stubDetail{err: entity.ErrNotFound})

	_, err := svc.MovieDetail(context.Background(), 404404)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
