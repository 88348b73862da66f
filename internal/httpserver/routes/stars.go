package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/httpserver/handlers"
)

func init() { Register(registerStars) }

func registerStars(r chi.Router, d deps.Deps) {
	r.Get("/api/stars", handlers.ListStars(d))
	r.Post("/api/stars", handlers.CreateStar(d))
	r.Put("/api/stars/{id}", handlers.UpdateStar(d))
	r.Delete("/api/stars/{id}", handlers.DeleteStar(d))
}
