package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/service"
)

// MetadataHandler handles HTTP requests for the metadata log.
type MetadataHandler struct {
	service *service.MetadataService
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(svc *service.MetadataService) *MetadataHandler {
	return &MetadataHandler{service: svc}
}

// HandleLog handles POST /api/v1/log requests.
func (h *MetadataHandler) HandleLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10) // 64KB

	var req model.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid JSON"))
		return
	}

	err := h.service.Record(r.Context(), req, service.Origin{
		RemoteAddr: r.RemoteAddr,
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidScore), errors.Is(err, service.ErrScoreMismatch):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
