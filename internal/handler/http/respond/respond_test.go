package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusOK, map[string]int{"id": 42})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id": 42}`, rec.Body.String())
}

func TestJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSafeError_SafeMessagesPassThrough(t *testing.T) {
	cases := []struct {
		name string
		code int
		err  error
	}{
		{"validation", http.StatusBadRequest, errors.New("query is required")},
		{"not found", http.StatusNotFound, errors.New("movie not found")},
		{"rate limit", http.StatusTooManyRequests, errors.New("rate limit exceeded")},
		{"upstream timeout", http.StatusGatewayTimeout, errors.New("TMDB request timed out. Please try again.")},
		{"upstream failure", http.StatusBadGateway, errors.New("TMDB returned 500: oops")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tc.code, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.err.Error(), decodeError(t, rec))
		})
	}
}

func TestSafeError_InternalErrorsAreMasked(t *testing.T) {
	rec := httptest.NewRecorder()

	SafeError(rec, http.StatusInternalServerError, errors.New("dial tcp 10.0.0.5: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestAppSafeError_UsesUserMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	err := NewAppError(http.StatusBadGateway, "TMDB request failed", errors.New("dial tcp: connection refused"))
	AppSafeError(rec, http.StatusInternalServerError, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "TMDB request failed", decodeError(t, rec))
}

func TestSanitizeMessage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"groq key",
			"401 from provider with key gsk_abc123DEF456",
			"401 from provider with key gsk_****",
		},
		{
			"anthropic key",
			"invalid x-api-key sk-ant-api03-xyz_123",
			"invalid x-api-key sk-ant-****",
		},
		{
			"openai key",
			"invalid key sk-0123456789abcdef",
			"invalid key sk-****",
		},
		{
			"tmdb query param",
			`Get "https://api.themoviedb.org/3/search/movie?api_key=deadbeef&query=x": timeout`,
			`Get "https://api.themoviedb.org/3/search/movie?api_key=****&query=x": timeout`,
		},
		{
			"clean message untouched",
			"movie not found",
			"movie not found",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeMessage(tc.in))
		})
	}
}
