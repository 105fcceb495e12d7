package movie

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cinefind/internal/domain/entity"
	"cinefind/internal/handler/http/respond"
	"cinefind/internal/infra/tmdb"
	"cinefind/internal/observability/logging"
)

// SearchHandler handles POST /api/search: analyze a free-text query and
// return matching movies with the intent analysis.
type SearchHandler struct{ Svc Service }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.SafeError(w, http.StatusRequestEntityTooLarge,
				errors.New("request body too long"))
			return
		}
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("invalid request body"))
		return
	}

	result, err := h.Svc.Search(r.Context(), req.Query)
	if err != nil {
		writeDiscoveryError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// writeDiscoveryError maps use case and gateway errors onto HTTP
// responses: 400 for invalid input, 404 for unknown movies, and the
// upstream-declared gateway status (502/504) for TMDB failures. Failures
// are logged with the request-scoped logger so entries carry the request
// ID.
func writeDiscoveryError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())

	var upstream *tmdb.UpstreamError
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		respond.SafeError(w, http.StatusBadRequest, errors.New("query is required"))
	case errors.Is(err, entity.ErrNotFound):
		respond.SafeError(w, http.StatusNotFound, errors.New("Movie not found"))
	case errors.As(err, &upstream):
		logger.Warn("upstream request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", upstream.StatusCode),
			slog.String("message", upstream.Message))
		respond.AppSafeError(w, upstream.StatusCode,
			respond.NewAppError(upstream.StatusCode, respond.SanitizeMessage(upstream.Message), err))
	default:
		logger.Error("discovery request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
