package store

import (
	"context"
	"database/sql"

	"github.com/overlaylab/rater-api/internal/domain"
)

// DecisionStore defines the interface for recording and undoing rater
// decisions. Score and choice tables are append-only with no uniqueness
// constraints; duplicate protection lives in the anti-join inserts here.
type DecisionStore interface {
	// RecordScore inserts the score unless the (screenshot, rater) pair
	// already has one, in which case it returns ErrDecisionExists and
	// inserts nothing. Discard scores go through DiscardROI instead.
	RecordScore(ctx context.Context, score *domain.EvaluationScore) error

	// RecordChoice inserts the choice unless the (screenshot, rater) pair
	// already has one, in which case it returns ErrDecisionExists.
	// The screenshot id is the item ROI's bounds screenshot.
	RecordChoice(ctx context.Context, choice *domain.ComparisonChoice) error

	// DiscardROI inserts a discard score for every not-yet-scored
	// screenshot of the ROI and a "neither" choice for the ROI's
	// not-yet-decided comparison row.
	//
	// IMPORTANT: this method MUST run within a transaction so the cascade
	// is all-or-nothing. Use WithTx together with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return decisionStore.WithTx(tx).DiscardROI(ctx, raterID, roi)
	//   })
	DiscardROI(ctx context.Context, raterID int64, roi domain.ROIKey) error

	// LatestScore returns the rater's most recently inserted score row,
	// with RowID populated. Returns ErrScoreNotFound when the rater has
	// no scores.
	LatestScore(ctx context.Context, raterID int64) (*domain.EvaluationScore, error)

	// DeleteScoreRow removes a single score row by its RowID.
	// Returns ErrDeleteFailed if no such row exists.
	DeleteScoreRow(ctx context.Context, rowID int64) error

	// WithTx returns a new DecisionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DecisionStore
}
