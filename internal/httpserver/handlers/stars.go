package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cosmicverse/starfield/internal/domain"
	"github.com/cosmicverse/starfield/internal/httpserver/deps"
	"github.com/cosmicverse/starfield/internal/logger"
	"github.com/cosmicverse/starfield/internal/service"
	"github.com/cosmicverse/starfield/internal/utils"
)

// ListStars returns the full collection as a JSON array.
func ListStars(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stars := d.Stars.List(r.Context())
		if stars == nil {
			stars = []domain.Star{}
		}
		writeJSON(w, http.StatusOK, stars)
	}
}

// CreateStar adds a new star and echoes the stored record, including
// the server-assigned id, so the client learns its identity.
func CreateStar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer utils.Close(r.Body)

		var in service.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		star, err := d.Stars.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			d.Logger.Error("failed to save star", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save star")
			return
		}

		writeJSON(w, http.StatusCreated, star)
	}
}

// UpdateStar edits the star addressed by the path id. The stored id and
// position survive whatever the payload claims.
func UpdateStar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer utils.Close(r.Body)
		id := chi.URLParam(r, "id")

		var in service.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		star, err := d.Stars.Update(r.Context(), id, in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				writeError(w, http.StatusNotFound, "Star not found")
			case errors.Is(err, service.ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				d.Logger.Error("failed to update star",
					logger.String("id", id),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to update star")
			}
			return
		}

		writeJSON(w, http.StatusOK, star)
	}
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

// DeleteStar removes the star addressed by the path id.
func DeleteStar(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Stars.Delete(r.Context(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Star not found")
				return
			}
			d.Logger.Error("failed to delete star",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to delete star")
			return
		}

		writeJSON(w, http.StatusOK, deleteResponse{OK: true})
	}
}
