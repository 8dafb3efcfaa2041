package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/overlaylab/rater-api/internal/api/shared"
)

// DatabaseHandler serves the database switch and metadata endpoints.
// Switching replaces the whole backend: stores, sessions, and image base
// all point at the new file afterwards.
type DatabaseHandler struct {
	provider  BackendProvider
	validator *validator.Validate
}

// NewDatabaseHandler creates a new DatabaseHandler with the given
// dependencies.
func NewDatabaseHandler(provider BackendProvider) *DatabaseHandler {
	return &DatabaseHandler{
		provider:  provider,
		validator: validator.New(),
	}
}

// Switch handles POST /api/database: it opens the study file at the given
// path and makes it the current backend. In-memory sessions do not survive
// the switch; raters resume from their persisted decisions.
func (h *DatabaseHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req SwitchDatabaseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	backend, err := h.provider.Switch(r.Context(), req.Path)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open database")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MetaResponse{
		Path:      backend.Path,
		ImageBase: backend.ImageBase,
	})
}

// Meta handles GET /api/meta: the open database's path and the directory
// the UI resolves screenshot file names against.
func (h *DatabaseHandler) Meta(w http.ResponseWriter, r *http.Request) {
	backend, err := h.provider.Current()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MetaResponse{
		Path:      backend.Path,
		ImageBase: backend.ImageBase,
	})
}
