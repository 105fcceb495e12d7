// Package entity defines the core domain types of the movie discovery
// service: the structured interpretation of a user query and the normalized
// movie records returned to clients.
package entity

// QueryIntent is the structured interpretation of a free-text movie query.
//
// It is constructed fresh for every query, consumed by the orchestrator to
// derive a search term, and never persisted.
//
// Invariant: after extraction completes, Titles is never empty. When the
// model returns no title, one is synthesized from the first keyword or the
// raw query (see the intent package's normalization).
type QueryIntent struct {
	// Titles holds explicit or model-recommended movie titles, best first.
	Titles []string `json:"titles"`

	// Keywords holds fallback search keywords and plot keywords.
	Keywords []string `json:"keywords"`

	// Actors holds actor names mentioned in the query.
	Actors []string `json:"actors"`

	// Directors holds director names mentioned in the query.
	Directors []string `json:"directors"`

	// Genres holds genres inferred from the query.
	Genres []string `json:"genres"`
}

// SearchTerm returns the term the search gateway should be queried with:
// the best title when one exists, otherwise the supplied raw query.
func (q QueryIntent) SearchTerm(rawQuery string) string {
	if len(q.Titles) > 0 && q.Titles[0] != "" {
		return q.Titles[0]
	}
	return rawQuery
}
