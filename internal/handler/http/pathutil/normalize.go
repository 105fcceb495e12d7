package pathutil

import (
	"strings"
)

// NormalizePath replaces numeric path segments with ":id" so metric
// labels keep a bounded cardinality.
//
// Example:
//
//	NormalizePath("/api/movies/27205") // "/api/movies/:id"
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return path
	}

	segments := strings.Split(path, "/")
	changed := false
	for i, seg := range segments {
		if seg != "" && isNumeric(seg) {
			segments[i] = ":id"
			changed = true
		}
	}
	if !changed {
		return path
	}
	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
