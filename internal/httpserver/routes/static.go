package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/httpserver/handlers"
)

func init() { Register(registerStatic) }

// Catch-all: serves the built client and falls back to index.html so
// client-side routes deep-link correctly.
func registerStatic(r chi.Router, d deps.Deps) {
	if d.StaticDir == "" {
		return
	}
	r.Handle("/*", handlers.Static(d))
}
