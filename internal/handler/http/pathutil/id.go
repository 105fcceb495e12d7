// Package pathutil provides helpers for extracting values from URL paths.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts and parses an integer ID from a URL path.
// It removes the specified prefix and parses the remainder as an int.
//
// Example:
//
//	id, err := ExtractID("/api/movies/27205", "/api/movies/")
//	// Returns: 27205, nil
func ExtractID(path, prefix string) (int, error) {
	idStr := strings.TrimPrefix(path, prefix)
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
