// Package session implements the per-rater task session: entering tasks,
// drawing items, recording decisions, and undo. A session is transient
// state over the database; destroying it loses nothing but the currently
// displayed item.
package session

import (
	"errors"
	"fmt"
)

// Common session service errors - sentinel errors callers check with errors.Is().
var (
	// ErrTaskCompleted indicates the active task has no eligible undecided
	// items left for the rater. It is a terminal state, not a failure.
	ErrTaskCompleted = errors.New("task completed")

	// ErrNoDisplayedItem indicates a decision arrived without a matching
	// displayed item, for example after a database switch or a stale UI.
	ErrNoDisplayedItem = errors.New("no item is currently displayed")

	// ErrUndoDiscard indicates the most recent score is a discard, which
	// cannot be undone.
	ErrUndoDiscard = errors.New("a discarded region cannot be restored")

	// ErrNothingToUndo indicates the rater has no recorded scores.
	ErrNothingToUndo = errors.New("there is no score to undo")
)

// SessionError is a custom error type for session service errors.
type SessionError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for SessionError.
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("session %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// NewSessionError creates a new SessionError.
func NewSessionError(operation, message string, err error) *SessionError {
	return &SessionError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
