package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/platform/logger"
	"github.com/overlaylab/rater-api/internal/store"
)

// RaterStore implements the store.RaterStore interface using a SQLite
// database as the storage backend.
type RaterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewRaterStore creates a new SQLite implementation of the RaterStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewRaterStore(db store.DBTX, logger *slog.Logger) *RaterStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RaterStore{
		db:     db,
		logger: logger.With(slog.String("component", "rater_store")),
	}
}

// Ensure RaterStore implements store.RaterStore interface
var _ store.RaterStore = (*RaterStore)(nil)

// GetByID implements store.RaterStore.GetByID
func (s *RaterStore) GetByID(ctx context.Context, id int64) (*domain.Rater, error) {
	query := `
		SELECT RaterId, Email, Password, ShowHelp
		FROM Raters
		WHERE RaterId = ?
	`
	return s.scanRater(ctx, query, id)
}

// GetByEmail implements store.RaterStore.GetByEmail
func (s *RaterStore) GetByEmail(ctx context.Context, email string) (*domain.Rater, error) {
	query := `
		SELECT RaterId, Email, Password, ShowHelp
		FROM Raters
		WHERE Email = ?
	`
	return s.scanRater(ctx, query, email)
}

func (s *RaterStore) scanRater(ctx context.Context, query string, arg any) (*domain.Rater, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		rater    domain.Rater
		showHelp int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&rater.ID, &rater.Email, &rater.HashedPassword, &showHelp)
	if err != nil {
		if mapped := MapError(err); store.IsNotFoundError(mapped) {
			return nil, store.ErrRaterNotFound
		}
		log.Error("failed to query rater", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	rater.ShowHelp = showHelp != 0
	return &rater, nil
}

// ClearShowHelp implements store.RaterStore.ClearShowHelp
func (s *RaterStore) ClearShowHelp(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE Raters SET ShowHelp = 0 WHERE RaterId = ?`, id)
	if err != nil {
		log.Error("failed to clear show_help flag",
			slog.String("error", err.Error()),
			slog.Int64("rater_id", id))
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: rater %d not found", store.ErrUpdateFailed, id)
	}
	log.Debug("cleared show_help flag", slog.Int64("rater_id", id))
	return nil
}

// WithTx implements store.RaterStore.WithTx
func (s *RaterStore) WithTx(tx *sql.Tx) store.RaterStore {
	return &RaterStore{
		db:     tx,
		logger: s.logger,
	}
}
