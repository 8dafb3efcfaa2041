package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrRaterNotFound, ErrTaskNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second score for the same rater and
	// screenshot).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or when stored data violates a structural invariant
	// (e.g., an ROI with no bounds screenshot). Check the wrapped error
	// for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed is returned when a delete operation fails, for example
	// because the entity does not exist.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrRaterNotFound indicates that the requested rater does not exist in the store.
	ErrRaterNotFound = fmt.Errorf("%w: rater", ErrNotFound)

	// ErrTaskNotFound indicates that the requested task does not exist in the store.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrItemNotFound indicates that no item matched the selection predicates.
	// For next-item queries this is the normal "task completed" outcome,
	// not a failure.
	ErrItemNotFound = fmt.Errorf("%w: item", ErrNotFound)

	// ErrScoreNotFound indicates that the rater has no recorded score,
	// for example when undoing with an empty history.
	ErrScoreNotFound = fmt.Errorf("%w: score", ErrNotFound)

	// ErrBoundsOverlayNotFound indicates that the database has no overlay
	// row naming the ROI bounds layer. The database is unusable for
	// comparison tasks without it.
	ErrBoundsOverlayNotFound = fmt.Errorf("%w: bounds overlay", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrDecisionExists indicates that the rater already has a recorded
	// decision (score or choice) for the target item.
	ErrDecisionExists = fmt.Errorf("%w: decision", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// This includes the generic ErrNotFound and all entity-specific not found errors.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
// This includes the generic ErrDuplicate and all entity-specific duplicate errors.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "rater", "score")
	Operation string // The operation that failed (e.g., "create", "select")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
