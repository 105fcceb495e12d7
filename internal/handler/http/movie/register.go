package movie

import (
	"net/http"
)

// Register registers the movie discovery routes with the given mux.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("POST /api/search", SearchHandler{Svc: svc})
	mux.Handle("GET  /api/movies/", DetailHandler{Svc: svc})
}
