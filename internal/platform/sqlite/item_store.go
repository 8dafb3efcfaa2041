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

// ItemStore implements the store.ItemStore interface using a SQLite
// database as the storage backend. The eligibility predicates are
// re-evaluated by every query; nothing is materialized.
type ItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewItemStore creates a new SQLite implementation of the ItemStore
// interface. If logger is nil, a default logger will be used.
func NewItemStore(db store.DBTX, logger *slog.Logger) *ItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure ItemStore implements store.ItemStore interface
var _ store.ItemStore = (*ItemStore)(nil)

// boundsCTE resolves the id of the bounds overlay once per query. Every
// query in this package starts with it; its single parameter is the bounds
// overlay name and always binds first.
const boundsCTE = `WITH bounds(id) AS (SELECT OverlayId FROM Overlays WHERE Name = ?)`

// sameROI renders the five-column ROI identity join between two
// Screenshots aliases.
func sameROI(a, b string) string {
	return fmt.Sprintf(
		"%[1]s.ROI_Id = %[2]s.ROI_Id AND %[1]s.CenterI = %[2]s.CenterI AND %[1]s.CenterJ = %[2]s.CenterJ AND %[1]s.CenterK = %[2]s.CenterK AND %[1]s.ViewId = %[2]s.ViewId",
		a, b)
}

// eligibleROI renders the exact-overlay-set predicate for the ROI of the
// screenshot bound to the outer alias: no sibling screenshot carries an
// overlay outside the required set (bounds excepted), and the distinct
// non-bounds overlays across the ROI number exactly len(required).
// The returned args bind the predicate's placeholders in textual order.
func eligibleROI(outer string, required domain.OverlaySet) (string, []any) {
	predicate := fmt.Sprintf(`NOT EXISTS (
		SELECT 1 FROM Screenshots s2
		JOIN ScreenshotOverlays so2 ON so2.ScreenshotId = s2.ScreenshotId
		WHERE %[1]s
		  AND so2.OverlayId <> (SELECT id FROM bounds)
		  AND so2.OverlayId NOT IN (%[2]s)
	)
	AND (
		SELECT COUNT(DISTINCT so2.OverlayId) FROM Screenshots s2
		JOIN ScreenshotOverlays so2 ON so2.ScreenshotId = s2.ScreenshotId
		WHERE %[1]s
		  AND so2.OverlayId <> (SELECT id FROM bounds)
	) = ?`,
		sameROI("s2", outer), placeholders(len(required)))

	args := int64Args(required)
	args = append(args, len(required))
	return predicate, args
}

// RemainingOverlays implements store.ItemStore.RemainingOverlays
func (s *ItemStore) RemainingOverlays(ctx context.Context, raterID int64, required domain.OverlaySet) ([]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	eligible, eligibleArgs := eligibleROI("s", required)
	query := fmt.Sprintf(`%s
		SELECT DISTINCT so.OverlayId
		FROM Screenshots s
		JOIN ScreenshotOverlays so ON so.ScreenshotId = s.ScreenshotId
		WHERE so.OverlayId IN (%s)
		  AND NOT EXISTS (
			SELECT 1 FROM EvaluationScores es
			WHERE es.ScreenshotId = s.ScreenshotId AND es.RaterId = ?
		  )
		  AND %s
		ORDER BY so.OverlayId`,
		boundsCTE, placeholders(len(required)), eligible)

	args := []any{domain.BoundsOverlayName}
	args = append(args, int64Args(required)...)
	args = append(args, raterID)
	args = append(args, eligibleArgs...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query remaining overlays",
			slog.String("error", err.Error()),
			slog.Int64("rater_id", raterID))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var overlays []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		overlays = append(overlays, id)
	}
	return overlays, MapError(rows.Err())
}

// evaluationItemQuery selects eligible, unrated screenshots carrying one
// overlay, left-joined with the ROI's bounds screenshot. The trailing
// clause is either the uniform random draw or a sticky id filter.
func evaluationItemQuery(required domain.OverlaySet, trailing string) (string, []any) {
	eligible, eligibleArgs := eligibleROI("s", required)
	query := fmt.Sprintf(`%s
		SELECT s.ScreenshotId, s.FileName, s.ROI_Id, s.CenterI, s.CenterJ, s.CenterK, s.ViewId,
		       b.ScreenshotId, b.FileName
		FROM Screenshots s
		JOIN ScreenshotOverlays so ON so.ScreenshotId = s.ScreenshotId AND so.OverlayId = ?
		LEFT JOIN (
			SELECT s3.ScreenshotId, s3.FileName, s3.ROI_Id, s3.CenterI, s3.CenterJ, s3.CenterK, s3.ViewId
			FROM Screenshots s3
			JOIN ScreenshotOverlays so3 ON so3.ScreenshotId = s3.ScreenshotId
			WHERE so3.OverlayId = (SELECT id FROM bounds)
		) b ON %s
		WHERE NOT EXISTS (
			SELECT 1 FROM EvaluationScores es
			WHERE es.ScreenshotId = s.ScreenshotId AND es.RaterId = ?
		)
		  AND %s
		%s`,
		boundsCTE, sameROI("b", "s"), eligible, trailing)
	return query, eligibleArgs
}

func (s *ItemStore) scanEvaluationItem(ctx context.Context, query string, overlayID int64, args []any) (*domain.EvaluationItem, error) {
	item := domain.EvaluationItem{OverlayID: overlayID}
	var (
		boundsID   sql.NullInt64
		boundsFile sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&item.Screenshot.ID,
		&item.Screenshot.FileName,
		&item.Screenshot.ROI.ROIID,
		&item.Screenshot.ROI.CenterI,
		&item.Screenshot.ROI.CenterJ,
		&item.Screenshot.ROI.CenterK,
		&item.Screenshot.ROI.ViewID,
		&boundsID,
		&boundsFile,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrItemNotFound
		}
		return nil, MapError(err)
	}
	if boundsID.Valid {
		item.Bounds = domain.Screenshot{
			ID:       boundsID.Int64,
			FileName: boundsFile.String,
			ROI:      item.Screenshot.ROI,
		}
	}
	return &item, nil
}

// NextEvaluationItem implements store.ItemStore.NextEvaluationItem
func (s *ItemStore) NextEvaluationItem(ctx context.Context, raterID int64, required domain.OverlaySet, overlayID int64) (*domain.EvaluationItem, error) {
	query, eligibleArgs := evaluationItemQuery(required, "ORDER BY random() LIMIT 1")

	args := []any{domain.BoundsOverlayName, overlayID, raterID}
	args = append(args, eligibleArgs...)
	return s.scanEvaluationItem(ctx, query, overlayID, args)
}

// GetEvaluationItem implements store.ItemStore.GetEvaluationItem
func (s *ItemStore) GetEvaluationItem(ctx context.Context, raterID int64, required domain.OverlaySet, screenshotID int64) (*domain.EvaluationItem, error) {
	query, eligibleArgs := evaluationItemQuery(required, "AND s.ScreenshotId = ?")

	// The sticky lookup does not know the item's overlay up front: resolve
	// it first, then re-check the screenshot under the full selection
	// predicates.
	var overlayID int64
	overlayQuery := boundsCTE + `
		SELECT so.OverlayId FROM ScreenshotOverlays so
		WHERE so.ScreenshotId = ? AND so.OverlayId <> (SELECT id FROM bounds)`
	if err := s.db.QueryRowContext(ctx, overlayQuery, domain.BoundsOverlayName, screenshotID).Scan(&overlayID); err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrItemNotFound
		}
		return nil, MapError(err)
	}

	args := []any{domain.BoundsOverlayName, overlayID, raterID}
	args = append(args, eligibleArgs...)
	args = append(args, screenshotID)
	return s.scanEvaluationItem(ctx, query, overlayID, args)
}

// EvaluationProgress implements store.ItemStore.EvaluationProgress
func (s *ItemStore) EvaluationProgress(ctx context.Context, raterID int64, required domain.OverlaySet) (domain.Progress, error) {
	eligible, eligibleArgs := eligibleROI("s", required)
	query := fmt.Sprintf(`%s
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN NOT EXISTS (
		           SELECT 1 FROM EvaluationScores es
		           WHERE es.ScreenshotId = s.ScreenshotId AND es.RaterId = ?
		       ) THEN 1 ELSE 0 END), 0)
		FROM Screenshots s
		JOIN ScreenshotOverlays so ON so.ScreenshotId = s.ScreenshotId
		WHERE so.OverlayId IN (%s)
		  AND %s`,
		boundsCTE, placeholders(len(required)), eligible)

	args := []any{domain.BoundsOverlayName, raterID}
	args = append(args, int64Args(required)...)
	args = append(args, eligibleArgs...)

	var progress domain.Progress
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&progress.Total, &progress.Remaining); err != nil {
		return domain.Progress{}, MapError(err)
	}
	return progress, nil
}

// comparisonItemQuery selects eligible, undecided ROIs anchored on their
// bounds screenshot, with one side per task overlay.
func comparisonItemQuery(task domain.ComparisonTask, trailing string) (string, []any) {
	eligible, eligibleArgs := eligibleROI("b", task.Overlays())
	query := fmt.Sprintf(`%s
		SELECT b.ScreenshotId, b.FileName, b.ROI_Id, b.CenterI, b.CenterJ, b.CenterK, b.ViewId,
		       sa.ScreenshotId, sa.FileName, soa.Color,
		       sb.ScreenshotId, sb.FileName, sob.Color
		FROM Screenshots b
		JOIN ScreenshotOverlays bo ON bo.ScreenshotId = b.ScreenshotId AND bo.OverlayId = (SELECT id FROM bounds)
		JOIN Screenshots sa ON %s
		JOIN ScreenshotOverlays soa ON soa.ScreenshotId = sa.ScreenshotId AND soa.OverlayId = ?
		JOIN Screenshots sb ON %s
		JOIN ScreenshotOverlays sob ON sob.ScreenshotId = sb.ScreenshotId AND sob.OverlayId = ?
		WHERE NOT EXISTS (
			SELECT 1 FROM ComparisonChoices cc
			WHERE cc.ScreenshotId = b.ScreenshotId AND cc.RaterId = ?
		)
		  AND %s
		%s`,
		boundsCTE, sameROI("sa", "b"), sameROI("sb", "b"), eligible, trailing)
	return query, eligibleArgs
}

func (s *ItemStore) scanComparisonItem(ctx context.Context, query string, task domain.ComparisonTask, args []any) (*domain.ComparisonItem, error) {
	var item domain.ComparisonItem
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&item.Bounds.ID,
		&item.Bounds.FileName,
		&item.ROI.ROIID,
		&item.ROI.CenterI,
		&item.ROI.CenterJ,
		&item.ROI.CenterK,
		&item.ROI.ViewID,
		&item.Sides[0].Screenshot.ID,
		&item.Sides[0].Screenshot.FileName,
		&item.Sides[0].Color,
		&item.Sides[1].Screenshot.ID,
		&item.Sides[1].Screenshot.FileName,
		&item.Sides[1].Color,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrItemNotFound
		}
		return nil, MapError(err)
	}
	item.Bounds.ROI = item.ROI
	item.Sides[0].Screenshot.ROI = item.ROI
	item.Sides[0].OverlayID = task.OverlayA
	item.Sides[1].Screenshot.ROI = item.ROI
	item.Sides[1].OverlayID = task.OverlayB
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return &item, nil
}

// NextComparisonItem implements store.ItemStore.NextComparisonItem
func (s *ItemStore) NextComparisonItem(ctx context.Context, raterID int64, task domain.ComparisonTask) (*domain.ComparisonItem, error) {
	query, eligibleArgs := comparisonItemQuery(task, "ORDER BY random() LIMIT 1")

	args := []any{domain.BoundsOverlayName, task.OverlayA, task.OverlayB, raterID}
	args = append(args, eligibleArgs...)
	return s.scanComparisonItem(ctx, query, task, args)
}

// GetComparisonItem implements store.ItemStore.GetComparisonItem
func (s *ItemStore) GetComparisonItem(ctx context.Context, raterID int64, task domain.ComparisonTask, boundsScreenshotID int64) (*domain.ComparisonItem, error) {
	query, eligibleArgs := comparisonItemQuery(task, "AND b.ScreenshotId = ?")

	args := []any{domain.BoundsOverlayName, task.OverlayA, task.OverlayB, raterID}
	args = append(args, eligibleArgs...)
	args = append(args, boundsScreenshotID)
	return s.scanComparisonItem(ctx, query, task, args)
}

// ComparisonProgress implements store.ItemStore.ComparisonProgress
func (s *ItemStore) ComparisonProgress(ctx context.Context, raterID int64, task domain.ComparisonTask) (domain.Progress, error) {
	eligible, eligibleArgs := eligibleROI("b", task.Overlays())
	query := fmt.Sprintf(`%s
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN NOT EXISTS (
		           SELECT 1 FROM ComparisonChoices cc
		           WHERE cc.ScreenshotId = b.ScreenshotId AND cc.RaterId = ?
		       ) THEN 1 ELSE 0 END), 0)
		FROM Screenshots b
		JOIN ScreenshotOverlays bo ON bo.ScreenshotId = b.ScreenshotId AND bo.OverlayId = (SELECT id FROM bounds)
		WHERE %s`,
		boundsCTE, eligible)

	args := []any{domain.BoundsOverlayName, raterID}
	args = append(args, eligibleArgs...)

	var progress domain.Progress
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&progress.Total, &progress.Remaining); err != nil {
		return domain.Progress{}, MapError(err)
	}
	return progress, nil
}

// TaskColors implements store.ItemStore.TaskColors
func (s *ItemStore) TaskColors(ctx context.Context, task domain.ComparisonTask) ([]string, error) {
	// Only screenshots of ROIs eligible for the pair count: a color on an
	// out-of-task screenshot must not break the task-wide two-color lock.
	eligible, eligibleArgs := eligibleROI("s", task.Overlays())
	query := fmt.Sprintf(`%s
		SELECT DISTINCT so.Color
		FROM Screenshots s
		JOIN ScreenshotOverlays so ON so.ScreenshotId = s.ScreenshotId
		WHERE so.OverlayId IN (?, ?)
		  AND %s
		ORDER BY so.Color`,
		boundsCTE, eligible)

	args := []any{domain.BoundsOverlayName, task.OverlayA, task.OverlayB}
	args = append(args, eligibleArgs...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var colors []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, MapError(err)
		}
		colors = append(colors, c)
	}
	return colors, MapError(rows.Err())
}
