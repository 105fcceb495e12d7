// Package intent provides language-model-backed extraction of structured
// search intent from free-text movie queries.
//
// It includes adapters for OpenAI-compatible chat APIs (Groq by default)
// and Claude (Anthropic), plus a noop extractor for environments without a
// provider. Extraction never fails outward: malformed model output,
// provider errors, and timeouts all resolve to a deterministic fallback
// intent derived from the raw query.
package intent

import (
	"context"
	"fmt"

	"cinefind/internal/domain/entity"
)

// Extractor turns a raw user query into a structured QueryIntent.
//
// Implementations must never return an error: every failure mode is
// absorbed into fallback intent values. The returned intent always has a
// non-empty Titles slice.
type Extractor interface {
	Extract(ctx context.Context, query string) entity.QueryIntent
}

// promptTemplate instructs the model to act as an intent-extraction engine
// and reply with a bare JSON object. The user query is embedded verbatim.
const promptTemplate = `You are a focused movie-understanding engine. The user query may be:
- a movie title
- a plot description or partial scene
- a mood or tone (e.g. "something light and funny for date night")
- a genre combination or actor/director request
Treat the query as intent extraction only.

User query: "%s"

Return a JSON object (ONLY JSON) with these keys:
{
  "titles": [],       // explicit movie titles found, or one best-guess canonical title (strings)
  "keywords": [],     // fallback search keywords / plot keywords
  "actors": [],       // actor names if mentioned
  "directors": [],    // director names if mentioned
  "genres": []        // genres if inferred
}

Rules:
1) Always return valid JSON only (no extra text).
2) If no explicit title is present, supply one best-guess canonical title and put the core text as a single keyword entry.
3) Keep lists empty when nothing is found.
4) Keep responses short and deterministic.

Examples:
- "Mind-bending sci-fi movies like Inception" -> genres: ["Science Fiction"], keywords: ["mind-bending"], titles: ["Inception"]
- "A movie where a guy forgets his memory every day and falls in love" -> keywords: ["memory loss", "romance"], titles: ["50 First Dates"]`

// buildPrompt embeds the raw query into the extraction prompt.
func buildPrompt(query string) string {
	return fmt.Sprintf(promptTemplate, query)
}
