package store

import (
	"context"
	"database/sql"

	"github.com/overlaylab/rater-api/internal/domain"
)

// RaterStore defines the interface for rater account persistence.
type RaterStore interface {
	// GetByID retrieves a rater by their unique ID.
	// Returns ErrRaterNotFound if the rater does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Rater, error)

	// GetByEmail retrieves a rater by their email address.
	// Returns ErrRaterNotFound if the rater does not exist.
	// The returned rater carries the bcrypt hash for password verification.
	GetByEmail(ctx context.Context, email string) (*domain.Rater, error)

	// ClearShowHelp marks the rater as having seen the help screen.
	// Returns ErrUpdateFailed if the rater does not exist.
	ClearShowHelp(ctx context.Context, id int64) error

	// WithTx returns a new RaterStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RaterStore
}
