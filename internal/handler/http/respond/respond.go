// Package respond provides utilities for sending HTTP responses in JSON
// format. It includes error handling with sanitization so upstream
// credentials never leak into client responses or logs.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error
// message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// safeFragments are substrings that mark an error message as safe to show
// to clients: validation errors and upstream statuses phrased for users.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"timed out",
	"must be",
	"cannot be",
	"too long",
	"rate limit",
	"tmdb",
}

// SafeError sanitizes error messages before returning them to clients.
// Validation errors and user-phrased upstream errors pass through as-is;
// anything else becomes "internal server error" with the details logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	lowerMsg := strings.ToLower(msg)

	isSafe := false
	for _, safe := range safeFragments {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}

	// 5xx responses other than upstream gateway statuses always mask.
	if code >= 500 && code != http.StatusBadGateway && code != http.StatusGatewayTimeout {
		isSafe = false
	}

	if isSafe {
		JSON(w, code, map[string]string{"error": SanitizeMessage(msg)})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// AppError is an error type that carries a user-facing message separate
// from the internal error that is logged.
type AppError struct {
	UserMsg string
	Err     error
	Code    int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// AppSafeError handles errors with AppError support. If the error is an
// AppError, the user message is returned and the internal error logged.
// Otherwise it falls back to SafeError behavior.
func AppSafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, map[string]string{"error": appErr.UserMsg})
		return
	}

	SafeError(w, code, err)
}
