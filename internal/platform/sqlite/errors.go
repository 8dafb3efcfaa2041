package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sqlitedrv "modernc.org/sqlite"

	"github.com/overlaylab/rater-api/internal/store"
)

// SQLite primary result codes (the low byte of an extended code).
const (
	constraintViolationCode = 19 // SQLITE_CONSTRAINT
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
// All database operations in this package route their errors through it.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		// The primary code is the low byte of the extended code.
		if sqliteErr.Code()&0xff == constraintViolationCode {
			return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
		}
	}

	return err
}

// IsConstraintViolation checks if the given error is a SQLite constraint
// violation of any kind.
func IsConstraintViolation(err error) bool {
	var sqliteErr *sqlitedrv.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == constraintViolationCode
}
