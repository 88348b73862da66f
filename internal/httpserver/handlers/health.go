package handlers

import (
	"net/http"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
)

type healthResponse struct {
	OK    bool `json:"ok"`
	Stars int  `json:"stars"`
}

// Health reports liveness plus the current star count. The shape is
// part of the client contract, keep it stable.
func Health(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, healthResponse{
			OK:    true,
			Stars: d.Stars.Count(r.Context()),
		})
	}
}
