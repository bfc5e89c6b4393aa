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

// DeriveHandler handles HTTP requests for deterministic derivation.
type DeriveHandler struct {
	service *service.DeriveService
}

// NewDeriveHandler creates a new DeriveHandler.
func NewDeriveHandler(svc *service.DeriveService) *DeriveHandler {
	return &DeriveHandler{service: svc}
}

// HandleDerive handles POST /api/v1/derive requests. Profiles are only
// resolved for authenticated callers.
func (h *DeriveHandler) HandleDerive(w http.ResponseWriter, r *http.Request) {
	var req model.DeriveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	h.derive(w, r, userID, req)
}

// HandleDeriveProfile handles POST /api/v1/profiles/{name}/derive requests.
func (h *DeriveHandler) HandleDeriveProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.DeriveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Profile = chi.URLParam(r, "name")
	req.Settings = nil

	h.derive(w, r, userID, req)
}

func (h *DeriveHandler) derive(w http.ResponseWriter, r *http.Request, userID int64, req model.DeriveRequest) {
	resp, err := h.service.Derive(r.Context(), userID, req)
	if err != nil {
		switch {
		case service.IsValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrProfileRequiresAuth):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		case errors.Is(err, service.ErrProfileNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			slog.Error("derive failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
