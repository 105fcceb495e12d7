package entity

import "errors"

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested movie does not exist upstream.
	ErrNotFound = errors.New("movie not found")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")
)
