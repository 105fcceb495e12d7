package respond

import (
	"regexp"
)

var (
	// Provider key patterns. The Anthropic pattern must run before the
	// generic sk- pattern so the mask keeps its prefix.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	groqKeyPattern      = regexp.MustCompile(`gsk_[a-zA-Z0-9]+`)

	// TMDB sends its v3 key as a query parameter, which can surface in
	// wrapped transport errors that include the request URL.
	tmdbKeyPattern = regexp.MustCompile(`api_key=[^&\s"]+`)
)

// SanitizeMessage masks credentials embedded in a message.
func SanitizeMessage(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = groqKeyPattern.ReplaceAllString(msg, "gsk_****")
	msg = tmdbKeyPattern.ReplaceAllString(msg, "api_key=****")
	return msg
}

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeMessage(err.Error())
}
