package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/httpserver/handlers"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Get("/admin", handlers.Admin(d))
	r.Post("/delete", handlers.AdminDelete(d))
}
