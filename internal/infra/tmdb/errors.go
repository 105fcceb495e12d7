package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Upstream error messages surfaced to API clients. They mirror the
// gateway status they map to: 504 for timeouts, 502 for everything else.
const (
	msgSearchTimeout = "TMDB request timed out. Please try again."
	msgDetailTimeout = "TMDB details request timed out."
)

// maxErrorBody caps how much of an upstream error body is echoed into an
// error message.
const maxErrorBody = 512

// UpstreamError describes a failed TMDB call in terms of the gateway
// status the API should respond with.
type UpstreamError struct {
	// StatusCode is the HTTP status the API surfaces for this failure
	// (504 for upstream timeouts, 502 otherwise).
	StatusCode int

	// Message is a client-safe description of the failure.
	Message string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return e.Message
}

// isTimeout reports whether err represents an upstream deadline rather
// than a transport or protocol failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// mapTransportError converts a transport-level failure into an
// UpstreamError, distinguishing timeouts from other failures.
func mapTransportError(err error, timeoutMsg, failurePrefix string) *UpstreamError {
	if isTimeout(err) {
		return &UpstreamError{StatusCode: 504, Message: timeoutMsg}
	}
	return &UpstreamError{
		StatusCode: 502,
		Message:    fmt.Sprintf("%s: %v", failurePrefix, err),
	}
}

// mapStatusError converts a non-200 upstream response into an
// UpstreamError, echoing a bounded portion of the body.
func mapStatusError(status int, body []byte) *UpstreamError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &UpstreamError{
		StatusCode: 502,
		Message:    fmt.Sprintf("TMDB returned %d: %s", status, body),
	}
}
