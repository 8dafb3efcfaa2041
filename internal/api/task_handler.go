package api

import (
	"errors"
	"net/http"

	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/service/session"
)

// TaskHandler serves the task overview and next-item endpoints.
type TaskHandler struct {
	provider BackendProvider
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(provider BackendProvider) *TaskHandler {
	return &TaskHandler{provider: provider}
}

// List handles GET /api/tasks: every task with the rater's progress, plus
// score button and contact configuration.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	raterID, ok := getRaterIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Rater ID not found in request context")
		return
	}
	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	list, err := sessions.Tasks(r.Context(), raterID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tasks")
		return
	}

	resp := TaskListResponse{
		Evaluations: make([]EvaluationTaskResponse, 0, len(list.Evaluations)),
		Comparisons: make([]ComparisonTaskResponse, 0, len(list.Comparisons)),
	}
	for _, status := range list.Evaluations {
		resp.Evaluations = append(resp.Evaluations, EvaluationTaskResponse{
			ID:       status.Task.ID,
			Overlays: status.Task.Overlays,
			Progress: progressResponse(status.Progress, true),
		})
	}
	for _, status := range list.Comparisons {
		resp.Comparisons = append(resp.Comparisons, ComparisonTaskResponse{
			ID:       status.Task.ID,
			OverlayA: status.Task.OverlayA,
			OverlayB: status.Task.OverlayB,
			Progress: progressResponse(status.Progress, true),
		})
	}
	for _, opt := range list.ScoreOptions {
		resp.ScoreOptions = append(resp.ScoreOptions, ScoreOptionResponse{
			Value:       opt.Value,
			Label:       opt.Label,
			Color:       opt.Color,
			Description: opt.Description,
			Keys:        opt.Keys,
		})
	}
	if list.Contact != nil {
		resp.Contact = &ContactResponse{
			Name:    list.Contact.Name,
			Email:   list.Contact.Email,
			Subject: list.Contact.Subject,
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// NextEvaluation handles POST /api/tasks/eval/{id}/next. A completed task
// answers 204.
func (h *TaskHandler) NextEvaluation(w http.ResponseWriter, r *http.Request) {
	raterID, taskID, ok := requireRaterAndTask(w, r)
	if !ok {
		return
	}
	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	display, err := sessions.NextEvaluationItem(r.Context(), raterID, taskID)
	if err != nil {
		if errors.Is(err, session.ErrTaskCompleted) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		HandleAPIError(w, r, err, "Failed to select next item")
		return
	}

	resp := EvaluationItemResponse{
		Screenshot: ScreenshotResponse{
			ID:       display.Item.Screenshot.ID,
			FileName: display.Item.Screenshot.FileName,
		},
		OverlayID: display.Item.OverlayID,
		Progress:  progressResponse(display.Progress, false),
	}
	if display.Item.Bounds.ID != 0 {
		resp.Bounds = &ScreenshotResponse{
			ID:       display.Item.Bounds.ID,
			FileName: display.Item.Bounds.FileName,
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// NextComparison handles POST /api/tasks/comp/{id}/next. The response
// carries the two bound slots in display order; the UI reports the chosen
// slot index back. A completed task answers 204.
func (h *TaskHandler) NextComparison(w http.ResponseWriter, r *http.Request) {
	raterID, taskID, ok := requireRaterAndTask(w, r)
	if !ok {
		return
	}
	sessions, ok := currentSessions(w, r, h.provider)
	if !ok {
		return
	}

	display, err := sessions.NextComparisonItem(r.Context(), raterID, taskID)
	if err != nil {
		if errors.Is(err, session.ErrTaskCompleted) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		HandleAPIError(w, r, err, "Failed to select next item")
		return
	}

	resp := ComparisonItemResponse{
		Bounds: ScreenshotResponse{
			ID:       display.Item.Bounds.ID,
			FileName: display.Item.Bounds.FileName,
		},
		Progress: progressResponse(display.Progress, false),
	}
	for i := 0; i < 2; i++ {
		resp.Slots[i] = ComparisonSlotResponse{
			Screenshot: ScreenshotResponse{
				ID:       display.Binding.Slots[i].Screenshot.ID,
				FileName: display.Binding.Slots[i].Screenshot.FileName,
			},
			Color: display.Binding.Colors[i],
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
