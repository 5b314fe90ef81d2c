package handler

import (
	"errors"
	"net/http"

	"github.com/passcheck/passcheck-go/internal/model"
	"github.com/passcheck/passcheck-go/internal/service"
	"github.com/passcheck/passcheck-go/internal/strength"
)

// SuggestionHandler handles HTTP requests for password suggestions and the
// scoring policy.
type SuggestionHandler struct {
	service *service.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(svc *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: svc}
}

// HandleSuggest handles GET /api/v1/suggest?min=N requests.
func (h *SuggestionHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	minLength, err := service.ParseMinLength(r.URL.Query().Get("min"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, codedErrorResponse("invalid_input", err.Error()))
		return
	}

	resp, err := h.service.Suggest(r.Context(), minLength)
	if err != nil {
		if errors.Is(err, service.ErrExhausted) {
			writeJSON(w, http.StatusServiceUnavailable, codedErrorResponse("exhausted", err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, codedErrorResponse("internal", "internal server error"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// HandleRules handles GET /api/v1/rules requests.
func (h *SuggestionHandler) HandleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.RulesResponse{
		Rules:    h.service.Rules(),
		Labels:   strength.Labels(),
		MaxScore: strength.MaxScore,
		Suggest: model.SuggestBounds{
			Min:     service.MinSuggestLength,
			Max:     service.MaxSuggestLength,
			Default: h.service.TargetLength(0),
		},
	})
}
