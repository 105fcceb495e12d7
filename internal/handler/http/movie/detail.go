package movie

import (
	"net/http"

	"cinefind/internal/handler/http/pathutil"
	"cinefind/internal/handler/http/respond"
)

// DetailHandler handles GET /api/movies/{id}: the full detail record for
// one movie.
type DetailHandler struct{ Svc Service }

func (h DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/api/movies/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	detail, err := h.Svc.MovieDetail(r.Context(), id)
	if err != nil {
		writeDiscoveryError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, detail)
}
