package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/overlaylab/rater-api/internal/api/shared"
)

// DecisionHandler serves the score, choice, and undo endpoints.
type DecisionHandler struct {
	provider  BackendProvider
	validator *validator.Validate
}

// NewDecisionHandler creates a new DecisionHandler with the given
// dependencies.
func NewDecisionHandler(provider BackendProvider) *DecisionHandler {
	return &DecisionHandler{
		provider:  provider,
		validator: validator.New(),
	}
}

// RecordScore handles POST /api/scores. The screenshot id must match the
// currently displayed item; a zero value triggers the discard cascade for
// the item's whole region.
func (h *DecisionHandler) RecordScore(w http.ResponseWriter, r *http.Request) {
	raterID, ok := getRaterIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Rater ID not found in request context")
		return
	}

	var req ScoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	progress, err := sessions.RecordScore(r.Context(), raterID, req.ScreenshotID, req.Value)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record score")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DecisionResponse{
		Progress: progressResponse(progress, false),
	})
}

// RecordChoice handles POST /api/choices. The slot index refers to the
// binding of the currently displayed comparison item; 2 records "neither".
func (h *DecisionHandler) RecordChoice(w http.ResponseWriter, r *http.Request) {
	raterID, ok := getRaterIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Rater ID not found in request context")
		return
	}

	var req ChoiceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	progress, err := sessions.RecordChoice(r.Context(), raterID, req.Slot)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record choice")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, DecisionResponse{
		Progress: progressResponse(progress, false),
	})
}

// Undo handles POST /api/undo: it removes the rater's most recent
// non-discard score and re-arms the undone item as the next one shown.
func (h *DecisionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	raterID, ok := getRaterIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Rater ID not found in request context")
		return
	}
	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	undone, err := sessions.Undo(r.Context(), raterID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to undo score")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UndoResponse{
		ScreenshotID: undone.ScreenshotID,
		Value:        undone.Score,
	})
}
