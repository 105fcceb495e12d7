package intent

import (
	"encoding/json"
	"strings"

	"cinefind/internal/domain/entity"
)

// fallbackTitle is used when even the raw query is blank.
const fallbackTitle = "Unknown"

// parseResult is the outcome of parsing raw model output. Exactly one of
// the two shapes applies: a structured intent, or the raw text flagged as
// malformed.
type parseResult struct {
	intent    entity.QueryIntent
	malformed bool
	raw       string
}

// parseModelOutput parses raw model output as a strict JSON object.
//
// Anything that is not a JSON object (prose, code fences, arrays, null)
// is reported as malformed rather than repaired. Individual keys that are
// missing or have the wrong shape default to empty lists; the model
// occasionally emits a bare string where a list is expected and losing
// that one field is preferable to discarding the whole object.
func parseModelOutput(raw string) parseResult {
	trimmed := strings.TrimSpace(raw)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil || obj == nil {
		return parseResult{malformed: true, raw: raw}
	}

	return parseResult{
		intent: entity.QueryIntent{
			Titles:    stringList(obj, "titles"),
			Keywords:  stringList(obj, "keywords"),
			Actors:    stringList(obj, "actors"),
			Directors: stringList(obj, "directors"),
			Genres:    stringList(obj, "genres"),
		},
	}
}

func stringList(obj map[string]json.RawMessage, key string) []string {
	raw, ok := obj[key]
	if !ok {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// normalizeIntent turns a parse result into the final QueryIntent,
// enforcing that Titles is never empty.
//
// For a parsed object with no titles, the fallback order is: first
// keyword, then the trimmed raw query, then "Unknown". For malformed
// output, both titles and keywords become the trimmed raw query (or
// "Unknown" when blank) so downstream search still has something to work
// with.
func normalizeIntent(res parseResult, query string) entity.QueryIntent {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		trimmed = fallbackTitle
	}

	if res.malformed {
		return entity.QueryIntent{
			Titles:    []string{trimmed},
			Keywords:  []string{trimmed},
			Actors:    []string{},
			Directors: []string{},
			Genres:    []string{},
		}
	}

	intent := res.intent
	if len(intent.Titles) == 0 {
		if len(intent.Keywords) > 0 {
			intent.Titles = []string{intent.Keywords[0]}
		} else {
			intent.Titles = []string{trimmed}
		}
	}
	return intent
}

// fallbackIntent is the intent used when no model output is available at
// all (provider error, open circuit, noop extractor).
func fallbackIntent(query string) entity.QueryIntent {
	return normalizeIntent(parseResult{malformed: true}, query)
}
