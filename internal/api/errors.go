package api

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/domain/binding"
	"github.com/overlaylab/rater-api/internal/service/auth"
	"github.com/overlaylab/rater-api/internal/service/session"
	"github.com/overlaylab/rater-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrRaterNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, session.ErrNoDisplayedItem):
		return http.StatusConflict

	// Validation refusals
	case errors.Is(err, session.ErrUndoDiscard),
		errors.Is(err, session.ErrNothingToUndo):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrInvalidScoreValue):
		return http.StatusBadRequest

	// No database open yet
	case errors.Is(err, ErrNoDatabaseOpen):
		return http.StatusServiceUnavailable

	// Rejected database switch: the current backend stays in place.
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusBadRequest

	// Invariant violations surface as internal errors: the item cannot be
	// shown, but the session survives.
	case errors.Is(err, binding.ErrColorMismatch),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrRaterNotFound):
		return "Rater not found"

	case errors.Is(err, store.ErrDuplicate):
		return "This item already has a decision"

	case errors.Is(err, session.ErrNoDisplayedItem):
		return "No item is currently displayed"

	case errors.Is(err, session.ErrUndoDiscard):
		return "A discarded region cannot be restored"

	case errors.Is(err, session.ErrNothingToUndo):
		return "There is no score to undo"

	case errors.Is(err, domain.ErrInvalidScoreValue):
		return "Invalid score value"

	case errors.Is(err, ErrNoDatabaseOpen):
		return "No database open"

	case errors.Is(err, fs.ErrNotExist):
		return "Database file not found"

	default:
		return "Internal error"
	}
}

// HandleAPIError maps the error to a status code and sanitized message and
// writes the response, logging the raw error alongside.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if message == "Internal error" && fallbackMessage != "" && status < http.StatusInternalServerError {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
