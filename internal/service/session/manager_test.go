package session_test

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/platform/sqlite"
	"github.com/overlaylab/rater-api/internal/service/session"
	"github.com/overlaylab/rater-api/internal/testdb"
)

const raterID int64 = 1

// seedStudy builds a small study: overlays 2 and 3, two ROIs fully covered
// by both plus bounds, one evaluation task over {2, 3}, and one comparison
// task for the same pair.
func seedStudy(t *testing.T, db *sql.DB) {
	t.Helper()

	testdb.MustExec(t, db, `INSERT INTO Raters (RaterId, Email, Password, ShowHelp) VALUES (1, 'rater@example.com', 'x', 1)`)
	testdb.MustExec(t, db, `INSERT INTO Overlays (OverlayId, Name) VALUES (2, 'Model A'), (3, 'Model B'), (9, ?)`,
		domain.BoundsOverlayName)

	shot := func(id, roiID, overlayID int64, color string) {
		testdb.MustExec(t, db,
			`INSERT INTO Screenshots (ScreenshotId, ViewId, FileName, ROI_Id, CenterI, CenterJ, CenterK)
			 VALUES (?, 'axial', ?, ?, ?, ?, ?)`,
			id, fmt.Sprintf("shot_%d.png", id), roiID, roiID*10, roiID*11, roiID*12)
		testdb.MustExec(t, db,
			`INSERT INTO ScreenshotOverlays (ScreenshotId, OverlayId, Color) VALUES (?, ?, ?)`,
			id, overlayID, color)
	}
	// ROI 1: screenshots 11 (overlay 2), 12 (overlay 3), 19 (bounds)
	shot(11, 1, 2, "#ff0000")
	shot(12, 1, 3, "#00ff00")
	shot(19, 1, 9, "#ffffff")
	// ROI 2: screenshots 21, 22, 29
	shot(21, 2, 2, "#ff0000")
	shot(22, 2, 3, "#00ff00")
	shot(29, 2, 9, "#ffffff")

	testdb.MustExec(t, db, `INSERT INTO EvaluationTasks (EvaluationTaskId, OverlayId) VALUES (1, 2), (1, 3)`)
	testdb.MustExec(t, db, `INSERT INTO ComparisonTasks (ComparisonTaskId, OverlayId1, OverlayId2) VALUES (1, 2, 3)`)
	testdb.MustExec(t, db, `INSERT INTO Scores (Value, Label, Color, Description, Keys) VALUES
		(1, 'Poor', '#ff0000', '', '49'), (2, 'Good', '#00ff00', '', '50')`)
	testdb.MustExec(t, db, `INSERT INTO Contacts (Name, Email, Subject) VALUES ('Study Team', 'team@example.com', 'study')`)
}

func newTestManager(t *testing.T, db *sql.DB) *session.Manager {
	t.Helper()
	return session.NewManager(
		db,
		sqlite.NewCatalogStore(db, nil),
		sqlite.NewItemStore(db, nil),
		sqlite.NewDecisionStore(db, nil),
		rand.New(rand.NewSource(1)),
		nil,
	)
}

func TestTasksOverview(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	list, err := manager.Tasks(ctx, raterID)
	require.NoError(t, err)

	require.Len(t, list.Evaluations, 1)
	assert.Equal(t, 4, list.Evaluations[0].Progress.Total)
	assert.Equal(t, "0%", list.Evaluations[0].Label)

	require.Len(t, list.Comparisons, 1)
	assert.Equal(t, 2, list.Comparisons[0].Progress.Total)

	require.Len(t, list.ScoreOptions, 2)
	require.NotNil(t, list.Contact)
	assert.Equal(t, "team@example.com", list.Contact.Email)

	assert.Equal(t, session.StateIdle, manager.State(raterID))
}

func TestEvaluationFlow(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	display, err := manager.NextEvaluationItem(ctx, raterID, 1)
	require.NoError(t, err)
	require.NotNil(t, display.Item)
	assert.Equal(t, 4, display.Progress.Total)
	assert.Equal(t, session.StateItemDisplayed, manager.State(raterID))

	t.Run("sticky item survives reload", func(t *testing.T) {
		again, err := manager.NextEvaluationItem(ctx, raterID, 1)
		require.NoError(t, err)
		assert.Equal(t, display.Item.Screenshot.ID, again.Item.Screenshot.ID)
	})

	t.Run("scoring advances progress", func(t *testing.T) {
		progress, err := manager.RecordScore(ctx, raterID, display.Item.Screenshot.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, progress.Remaining)
		assert.Equal(t, session.StateItemDecided, manager.State(raterID))
	})

	t.Run("scoring a non-displayed item is refused", func(t *testing.T) {
		_, err := manager.RecordScore(ctx, raterID, 999, 2)
		assert.ErrorIs(t, err, session.ErrNoDisplayedItem)
	})

	t.Run("invalid score value is refused", func(t *testing.T) {
		display, err := manager.NextEvaluationItem(ctx, raterID, 1)
		require.NoError(t, err)
		_, err = manager.RecordScore(ctx, raterID, display.Item.Screenshot.ID, 7)
		assert.ErrorIs(t, err, domain.ErrInvalidScoreValue)
	})

	t.Run("task drains to completion", func(t *testing.T) {
		for {
			display, err := manager.NextEvaluationItem(ctx, raterID, 1)
			if err != nil {
				assert.ErrorIs(t, err, session.ErrTaskCompleted)
				break
			}
			_, err = manager.RecordScore(ctx, raterID, display.Item.Screenshot.ID, 1)
			require.NoError(t, err)
		}
		assert.Equal(t, session.StateDone, manager.State(raterID))

		list, err := manager.Tasks(ctx, raterID)
		require.NoError(t, err)
		assert.Equal(t, "Completed!", list.Evaluations[0].Label)
	})
}

func TestDiscardFlow(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	display, err := manager.NextEvaluationItem(ctx, raterID, 1)
	require.NoError(t, err)
	roiID := display.Item.Screenshot.ROI.ROIID

	progress, err := manager.RecordScore(ctx, raterID, display.Item.Screenshot.ID, domain.DiscardScore)
	require.NoError(t, err)

	// Both overlay screenshots of the ROI are now scored (0), so two of the
	// four items are gone in one decision.
	assert.Equal(t, 2, progress.Remaining)

	var choices int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM ComparisonChoices WHERE RaterId = ?`, raterID).Scan(&choices))
	assert.Equal(t, 1, choices, "the ROI's comparison is decided as neither")

	t.Run("discard cannot be undone", func(t *testing.T) {
		_, err := manager.Undo(ctx, raterID)
		assert.ErrorIs(t, err, session.ErrUndoDiscard)
	})

	// The other ROI must be untouched.
	next, err := manager.NextEvaluationItem(ctx, raterID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, roiID, next.Item.Screenshot.ROI.ROIID)
}

func TestUndoFlow(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	t.Run("empty history", func(t *testing.T) {
		_, err := manager.Undo(ctx, raterID)
		assert.ErrorIs(t, err, session.ErrNothingToUndo)
	})

	display, err := manager.NextEvaluationItem(ctx, raterID, 1)
	require.NoError(t, err)
	scoredID := display.Item.Screenshot.ID

	_, err = manager.RecordScore(ctx, raterID, scoredID, 2)
	require.NoError(t, err)

	undone, err := manager.Undo(ctx, raterID)
	require.NoError(t, err)
	assert.Equal(t, scoredID, undone.ScreenshotID)
	assert.Equal(t, 2, undone.Score)

	t.Run("undone item is re-armed as sticky", func(t *testing.T) {
		display, err := manager.NextEvaluationItem(ctx, raterID, 1)
		require.NoError(t, err)
		assert.Equal(t, scoredID, display.Item.Screenshot.ID)
	})

	t.Run("progress is restored", func(t *testing.T) {
		list, err := manager.Tasks(ctx, raterID)
		require.NoError(t, err)
		assert.Equal(t, 4, list.Evaluations[0].Progress.Remaining)
	})
}

func TestComparisonFlow(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	display, err := manager.NextComparisonItem(ctx, raterID, 1)
	require.NoError(t, err)
	require.NotNil(t, display.Binding)
	assert.Equal(t, 2, display.Progress.Total)

	// Two distinct colors across the task: global mode binds red and green
	// to fixed slots on every item.
	firstColors := display.Binding.Colors

	t.Run("sticky comparison survives reload", func(t *testing.T) {
		again, err := manager.NextComparisonItem(ctx, raterID, 1)
		require.NoError(t, err)
		assert.Equal(t, display.Item.ROI, again.Item.ROI)
		assert.Equal(t, firstColors, again.Binding.Colors)
	})

	t.Run("choices drain the task with stable slot colors", func(t *testing.T) {
		for {
			display, err := manager.NextComparisonItem(ctx, raterID, 1)
			if err != nil {
				assert.ErrorIs(t, err, session.ErrTaskCompleted)
				break
			}
			assert.Equal(t, firstColors, display.Binding.Colors)
			_, err = manager.RecordChoice(ctx, raterID, 0)
			require.NoError(t, err)
		}

		var choices int
		require.NoError(t, db.QueryRow(
			`SELECT COUNT(*) FROM ComparisonChoices WHERE RaterId = ?`, raterID).Scan(&choices))
		assert.Equal(t, 2, choices)
	})

	t.Run("choice without a displayed item is refused", func(t *testing.T) {
		_, err := manager.RecordChoice(ctx, raterID, 0)
		assert.ErrorIs(t, err, session.ErrNoDisplayedItem)
	})
}

func TestSwitchingTasksResetsSession(t *testing.T) {
	ctx := context.Background()
	db := testdb.NewMemoryDB(t)
	seedStudy(t, db)
	manager := newTestManager(t, db)

	evalDisplay, err := manager.NextEvaluationItem(ctx, raterID, 1)
	require.NoError(t, err)

	// Entering the comparison task abandons the evaluation item.
	_, err = manager.NextComparisonItem(ctx, raterID, 1)
	require.NoError(t, err)

	_, err = manager.RecordScore(ctx, raterID, evalDisplay.Item.Screenshot.ID, 2)
	assert.ErrorIs(t, err, session.ErrNoDisplayedItem)
}
