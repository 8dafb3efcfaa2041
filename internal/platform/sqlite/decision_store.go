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

// DecisionStore implements the store.DecisionStore interface using a SQLite
// database as the storage backend. All inserts are anti-joins: a decision
// that already exists inserts zero rows instead of a duplicate.
type DecisionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDecisionStore creates a new SQLite implementation of the DecisionStore
// interface. If logger is nil, a default logger will be used.
func NewDecisionStore(db store.DBTX, logger *slog.Logger) *DecisionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DecisionStore{
		db:     db,
		logger: logger.With(slog.String("component", "decision_store")),
	}
}

// Ensure DecisionStore implements store.DecisionStore interface
var _ store.DecisionStore = (*DecisionStore)(nil)

// RecordScore implements store.DecisionStore.RecordScore
func (s *DecisionStore) RecordScore(ctx context.Context, score *domain.EvaluationScore) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if score.IsDiscard() {
		return fmt.Errorf("%w: discard scores must go through DiscardROI", store.ErrInvalidEntity)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO EvaluationScores (ScreenshotId, RaterId, Score)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM EvaluationScores
			WHERE ScreenshotId = ? AND RaterId = ?
		)`,
		score.ScreenshotID, score.RaterID, score.Score,
		score.ScreenshotID, score.RaterID,
	)
	if err != nil {
		log.Error("failed to record score",
			slog.String("error", err.Error()),
			slog.Int64("screenshot_id", score.ScreenshotID),
			slog.Int64("rater_id", score.RaterID))
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: screenshot %d already scored by rater %d",
			store.ErrDecisionExists, score.ScreenshotID, score.RaterID)
	}
	log.Debug("score recorded",
		slog.Int64("screenshot_id", score.ScreenshotID),
		slog.Int64("rater_id", score.RaterID),
		slog.Int("score", score.Score))
	return nil
}

// RecordChoice implements store.DecisionStore.RecordChoice
func (s *DecisionStore) RecordChoice(ctx context.Context, choice *domain.ComparisonChoice) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ComparisonChoices (ScreenshotId, RaterId, BestOverlayId)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM ComparisonChoices
			WHERE ScreenshotId = ? AND RaterId = ?
		)`,
		choice.ScreenshotID, choice.RaterID, choice.BestOverlayID,
		choice.ScreenshotID, choice.RaterID,
	)
	if err != nil {
		log.Error("failed to record choice",
			slog.String("error", err.Error()),
			slog.Int64("screenshot_id", choice.ScreenshotID),
			slog.Int64("rater_id", choice.RaterID))
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: comparison %d already decided by rater %d",
			store.ErrDecisionExists, choice.ScreenshotID, choice.RaterID)
	}
	log.Debug("choice recorded",
		slog.Int64("screenshot_id", choice.ScreenshotID),
		slog.Int64("rater_id", choice.RaterID),
		slog.Int64("best_overlay_id", choice.BestOverlayID))
	return nil
}

// DiscardROI implements store.DecisionStore.DiscardROI
func (s *DecisionStore) DiscardROI(ctx context.Context, raterID int64, roi domain.ROIKey) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Discard score for every sibling evaluation screenshot the rater has
	// not scored yet. Bounds screenshots are context imagery and never get
	// score rows. The left-join-is-null filter makes the insert idempotent
	// per screenshot, so re-discarding after a partial state never
	// duplicates.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO EvaluationScores (ScreenshotId, RaterId, Score)
		SELECT s.ScreenshotId, ?, ?
		FROM Screenshots s
		LEFT JOIN EvaluationScores es
			ON es.ScreenshotId = s.ScreenshotId AND es.RaterId = ?
		WHERE s.ROI_Id = ? AND s.CenterI = ? AND s.CenterJ = ? AND s.CenterK = ? AND s.ViewId = ?
		  AND es.RaterId IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM ScreenshotOverlays so
			JOIN Overlays o ON o.OverlayId = so.OverlayId
			WHERE so.ScreenshotId = s.ScreenshotId AND o.Name = ?
		  )`,
		raterID, domain.DiscardScore, raterID,
		roi.ROIID, roi.CenterI, roi.CenterJ, roi.CenterK, roi.ViewID,
		domain.BoundsOverlayName,
	)
	if err != nil {
		log.Error("failed to insert discard scores",
			slog.String("error", err.Error()),
			slog.Int64("rater_id", raterID),
			slog.Int64("roi_id", roi.ROIID))
		return MapError(err)
	}

	// "Neither" choice for the ROI's comparison, keyed by its bounds
	// screenshot, unless the rater already decided it.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ComparisonChoices (ScreenshotId, RaterId, BestOverlayId)
		SELECT s.ScreenshotId, ?, ?
		FROM Screenshots s
		JOIN ScreenshotOverlays so ON so.ScreenshotId = s.ScreenshotId
			AND so.OverlayId = (SELECT OverlayId FROM Overlays WHERE Name = ?)
		LEFT JOIN ComparisonChoices cc
			ON cc.ScreenshotId = s.ScreenshotId AND cc.RaterId = ?
		WHERE s.ROI_Id = ? AND s.CenterI = ? AND s.CenterJ = ? AND s.CenterK = ? AND s.ViewId = ?
		  AND cc.RaterId IS NULL`,
		raterID, domain.NeitherOverlayID, domain.BoundsOverlayName, raterID,
		roi.ROIID, roi.CenterI, roi.CenterJ, roi.CenterK, roi.ViewID,
	)
	if err != nil {
		log.Error("failed to insert discard choice",
			slog.String("error", err.Error()),
			slog.Int64("rater_id", raterID),
			slog.Int64("roi_id", roi.ROIID))
		return MapError(err)
	}

	log.Info("roi discarded",
		slog.Int64("rater_id", raterID),
		slog.Int64("roi_id", roi.ROIID),
		slog.String("view_id", roi.ViewID))
	return nil
}

// LatestScore implements store.DecisionStore.LatestScore
func (s *DecisionStore) LatestScore(ctx context.Context, raterID int64) (*domain.EvaluationScore, error) {
	var score domain.EvaluationScore
	err := s.db.QueryRowContext(ctx, `
		SELECT _rowid_, ScreenshotId, RaterId, Score
		FROM EvaluationScores
		WHERE RaterId = ?
		ORDER BY _rowid_ DESC
		LIMIT 1`,
		raterID,
	).Scan(&score.RowID, &score.ScreenshotID, &score.RaterID, &score.Score)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrScoreNotFound
		}
		return nil, MapError(err)
	}
	return &score, nil
}

// DeleteScoreRow implements store.DecisionStore.DeleteScoreRow
func (s *DecisionStore) DeleteScoreRow(ctx context.Context, rowID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM EvaluationScores WHERE _rowid_ = ?`, rowID)
	if err != nil {
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: score row %d not found", store.ErrDeleteFailed, rowID)
	}
	return nil
}

// WithTx implements store.DecisionStore.WithTx
func (s *DecisionStore) WithTx(tx *sql.Tx) store.DecisionStore {
	return &DecisionStore{
		db:     tx,
		logger: s.logger,
	}
}
