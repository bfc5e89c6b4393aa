package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
)

// ProfileHandler handles HTTP requests for derivation profiles.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleList handles GET /api/v1/profiles requests.
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	profiles, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list profiles failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// HandleCreate handles POST /api/v1/profiles requests.
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.save(w, r, userID, req, http.StatusCreated)
}

// HandleUpdate handles PUT /api/v1/profiles/{name} requests.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = chi.URLParam(r, "name")

	h.save(w, r, userID, req, http.StatusOK)
}

// HandleDelete handles DELETE /api/v1/profiles/{name} requests.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "name"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			slog.Error("delete profile failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) save(w http.ResponseWriter, r *http.Request, userID int64, req model.ProfileRequest, status int) {
	resp, err := h.service.Save(r.Context(), userID, req.Name, req.Settings)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		slog.Error("save profile failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, status, resp)
}
