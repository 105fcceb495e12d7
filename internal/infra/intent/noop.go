package intent

import (
	"context"

	"cinefind/internal/domain/entity"
)

// Noop is an extractor that never calls a model provider. Every query
// resolves to its fallback intent, which makes the search pipeline usable
// in development and tests without provider credentials.
type Noop struct{}

// NewNoop creates a no-op extractor.
func NewNoop() *Noop { return &Noop{} }

// Extract implements Extractor.
func (*Noop) Extract(_ context.Context, query string) entity.QueryIntent {
	return fallbackIntent(query)
}
