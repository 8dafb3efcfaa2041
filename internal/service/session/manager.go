package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/domain/binding"
	"github.com/overlaylab/rater-api/internal/platform/logger"
	"github.com/overlaylab/rater-api/internal/store"
)

// EvaluationTaskStatus is an evaluation task with the rater's progress.
type EvaluationTaskStatus struct {
	Task     domain.EvaluationTask
	Progress domain.Progress
	Label    string
}

// ComparisonTaskStatus is a comparison task with the rater's progress.
type ComparisonTaskStatus struct {
	Task     domain.ComparisonTask
	Progress domain.Progress
	Label    string
}

// TaskList is everything the task overview page needs.
type TaskList struct {
	Evaluations  []EvaluationTaskStatus
	Comparisons  []ComparisonTaskStatus
	ScoreOptions []domain.ScoreOption
	Contact      *domain.Contact
}

// EvaluationDisplay is a drawn evaluation item with the task progress.
type EvaluationDisplay struct {
	Item     *domain.EvaluationItem
	Progress domain.Progress
}

// ComparisonDisplay is a drawn comparison item, its slot binding, and the
// task progress.
type ComparisonDisplay struct {
	Item     *domain.ComparisonItem
	Binding  *binding.Binding
	Progress domain.Progress
}

// Manager owns the per-rater sessions and orchestrates selection, binding,
// recording, and undo against the stores. HTTP handlers are concurrent, so
// the session map is guarded; operations for a single rater are serialized
// by the same lock.
type Manager struct {
	db        *sql.DB
	catalog   store.CatalogStore
	items     store.ItemStore
	decisions store.DecisionStore
	binder    *binding.Binder
	rng       *rand.Rand
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewManager creates a session Manager over the given stores. The random
// source drives both the overlay draw and per-item slot shuffling and is
// injectable for tests; nil means a time-seeded source. If logger is nil, a
// default logger will be used.
func NewManager(
	db *sql.DB,
	catalog store.CatalogStore,
	items store.ItemStore,
	decisions store.DecisionStore,
	rng *rand.Rand,
	logger *slog.Logger,
) *Manager {
	if db == nil {
		panic("db cannot be nil")
	}
	if catalog == nil {
		panic("catalog store cannot be nil")
	}
	if items == nil {
		panic("item store cannot be nil")
	}
	if decisions == nil {
		panic("decision store cannot be nil")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		db:        db,
		catalog:   catalog,
		items:     items,
		decisions: decisions,
		binder:    binding.NewBinder(rng),
		rng:       rng,
		logger:    logger.With(slog.String("component", "session_manager")),
		sessions:  make(map[int64]*session),
	}
}

// session returns the rater's session, creating an idle one on first use.
// Callers must hold m.mu.
func (m *Manager) session(raterID int64) *session {
	sess, ok := m.sessions[raterID]
	if !ok {
		sess = &session{}
		m.sessions[raterID] = sess
	}
	return sess
}

// State reports the rater's current session state.
func (m *Manager) State(raterID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(raterID).state
}

// Tasks returns the task overview for the rater: every task with progress
// and completion labels, plus the score button and contact configuration.
// Viewing the overview leaves any active task, returning the session to
// Idle.
func (m *Manager) Tasks(ctx context.Context, raterID int64) (*TaskList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)
	m.session(raterID).reset()

	evalTasks, err := m.catalog.EvaluationTasks(ctx)
	if err != nil {
		return nil, NewSessionError("tasks", "failed to load evaluation tasks", err)
	}
	compTasks, err := m.catalog.ComparisonTasks(ctx)
	if err != nil {
		return nil, NewSessionError("tasks", "failed to load comparison tasks", err)
	}

	list := &TaskList{}
	for _, task := range evalTasks {
		progress, err := m.items.EvaluationProgress(ctx, raterID, task.Overlays)
		if err != nil {
			return nil, NewSessionError("tasks", "failed to compute evaluation progress", err)
		}
		list.Evaluations = append(list.Evaluations, EvaluationTaskStatus{
			Task:     task,
			Progress: progress,
			Label:    progress.Label(true),
		})
	}
	for _, task := range compTasks {
		progress, err := m.items.ComparisonProgress(ctx, raterID, task)
		if err != nil {
			return nil, NewSessionError("tasks", "failed to compute comparison progress", err)
		}
		list.Comparisons = append(list.Comparisons, ComparisonTaskStatus{
			Task:     task,
			Progress: progress,
			Label:    progress.Label(true),
		})
	}

	list.ScoreOptions, err = m.catalog.ScoreOptions(ctx)
	if err != nil {
		return nil, NewSessionError("tasks", "failed to load score options", err)
	}

	contact, err := m.catalog.Contact(ctx)
	switch {
	case err == nil:
		list.Contact = contact
	case store.IsNotFoundError(err):
		// Contact info is optional.
	default:
		return nil, NewSessionError("tasks", "failed to load contact info", err)
	}

	log.Debug("task overview served",
		slog.Int64("rater_id", raterID),
		slog.Int("evaluation_tasks", len(list.Evaluations)),
		slog.Int("comparison_tasks", len(list.Comparisons)))
	return list, nil
}

// findEvaluationTask resolves an evaluation task id against the catalog.
func (m *Manager) findEvaluationTask(ctx context.Context, taskID int64) (*domain.EvaluationTask, error) {
	tasks, err := m.catalog.EvaluationTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: evaluation task %d", store.ErrTaskNotFound, taskID)
}

// findComparisonTask resolves a comparison task id against the catalog.
func (m *Manager) findComparisonTask(ctx context.Context, taskID int64) (*domain.ComparisonTask, error) {
	tasks, err := m.catalog.ComparisonTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			return &tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: comparison task %d", store.ErrTaskNotFound, taskID)
}

// NextEvaluationItem enters the evaluation task if needed and returns the
// item to display: the sticky item when it is still pending, otherwise a
// fresh two-stage uniform draw. Returns ErrTaskCompleted when nothing
// remains.
func (m *Manager) NextEvaluationItem(ctx context.Context, raterID, taskID int64) (*EvaluationDisplay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	task, err := m.findEvaluationTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	sess := m.session(raterID)
	if sess.kind != taskEvaluation || sess.evalTask == nil || sess.evalTask.ID != taskID {
		sess.reset()
		sess.kind = taskEvaluation
		sess.evalTask = task
		sess.state = StateTaskActive
	}

	progress, err := m.items.EvaluationProgress(ctx, raterID, task.Overlays)
	if err != nil {
		return nil, NewSessionError("next_evaluation_item", "failed to compute progress", err)
	}

	// Sticky resumption: an undecided displayed item survives reloads.
	if sess.stickyID != 0 {
		item, err := m.items.GetEvaluationItem(ctx, raterID, task.Overlays, sess.stickyID)
		switch {
		case err == nil:
			sess.currentEval = item
			sess.state = StateItemDisplayed
			return &EvaluationDisplay{Item: item, Progress: progress}, nil
		case errors.Is(err, store.ErrItemNotFound):
			sess.clearItem()
		default:
			return nil, NewSessionError("next_evaluation_item", "sticky item lookup failed", err)
		}
	}

	overlays, err := m.items.RemainingOverlays(ctx, raterID, task.Overlays)
	if err != nil {
		return nil, NewSessionError("next_evaluation_item", "failed to list remaining overlays", err)
	}
	if len(overlays) == 0 {
		sess.clearItem()
		sess.state = StateDone
		return nil, ErrTaskCompleted
	}

	// Stage 1: uniform overlay; stage 2: uniform screenshot within it.
	overlayID := overlays[m.rng.Intn(len(overlays))]
	item, err := m.items.NextEvaluationItem(ctx, raterID, task.Overlays, overlayID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			sess.state = StateDone
			return nil, ErrTaskCompleted
		}
		return nil, NewSessionError("next_evaluation_item", "failed to draw item", err)
	}

	sess.stickyID = item.Screenshot.ID
	sess.currentEval = item
	sess.state = StateItemDisplayed
	log.Debug("evaluation item drawn",
		slog.Int64("rater_id", raterID),
		slog.Int64("task_id", taskID),
		slog.Int64("screenshot_id", item.Screenshot.ID),
		slog.Int64("overlay_id", overlayID))
	return &EvaluationDisplay{Item: item, Progress: progress}, nil
}

// NextComparisonItem enters the comparison task if needed and returns the
// item to display with its slot binding. Returns ErrTaskCompleted when
// nothing remains.
func (m *Manager) NextComparisonItem(ctx context.Context, raterID, taskID int64) (*ComparisonDisplay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	task, err := m.findComparisonTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	sess := m.session(raterID)
	if sess.kind != taskComparison || sess.compTask == nil || sess.compTask.ID != taskID {
		sess.reset()
		sess.kind = taskComparison
		sess.compTask = task
		sess.state = StateTaskActive

		// Derive the task-wide color list once per task entry. Two distinct
		// colors lock the choice slots for the whole task.
		raw, err := m.items.TaskColors(ctx, *task)
		if err != nil {
			return nil, NewSessionError("next_comparison_item", "failed to load task colors", err)
		}
		sess.taskColors, err = binding.TaskColors(raw)
		if err != nil {
			return nil, NewSessionError("next_comparison_item", "invalid overlay color in database", err)
		}
	}

	progress, err := m.items.ComparisonProgress(ctx, raterID, *task)
	if err != nil {
		return nil, NewSessionError("next_comparison_item", "failed to compute progress", err)
	}

	item, err := m.stickyOrNextComparison(ctx, raterID, sess, *task)
	if err != nil {
		return nil, err
	}

	bound, err := m.binder.Bind(item, sess.taskColors)
	if err != nil {
		// Fatal for this item only. Dropping the sticky pin makes the next
		// request re-draw instead of re-failing.
		sess.clearItem()
		sess.state = StateTaskActive
		return nil, NewSessionError("next_comparison_item", "slot binding failed", err)
	}

	sess.stickyID = item.Bounds.ID
	sess.currentComp = item
	sess.currentBinding = bound
	sess.state = StateItemDisplayed
	log.Debug("comparison item drawn",
		slog.Int64("rater_id", raterID),
		slog.Int64("task_id", taskID),
		slog.Int64("bounds_screenshot_id", item.Bounds.ID))
	return &ComparisonDisplay{Item: item, Binding: bound, Progress: progress}, nil
}

func (m *Manager) stickyOrNextComparison(ctx context.Context, raterID int64, sess *session, task domain.ComparisonTask) (*domain.ComparisonItem, error) {
	if sess.stickyID != 0 {
		item, err := m.items.GetComparisonItem(ctx, raterID, task, sess.stickyID)
		switch {
		case err == nil:
			return item, nil
		case errors.Is(err, store.ErrItemNotFound):
			sess.clearItem()
		default:
			return nil, NewSessionError("next_comparison_item", "sticky item lookup failed", err)
		}
	}

	item, err := m.items.NextComparisonItem(ctx, raterID, task)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			sess.clearItem()
			sess.state = StateDone
			return nil, ErrTaskCompleted
		}
		return nil, NewSessionError("next_comparison_item", "failed to draw item", err)
	}
	return item, nil
}

// RecordScore records the rater's score for the displayed evaluation item.
// A zero value triggers the discard cascade over the item's whole ROI in a
// single transaction. Returns the refreshed task progress.
func (m *Manager) RecordScore(ctx context.Context, raterID, screenshotID int64, value int) (domain.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	sess := m.session(raterID)
	if sess.kind != taskEvaluation || sess.state != StateItemDisplayed ||
		sess.currentEval == nil || sess.currentEval.Screenshot.ID != screenshotID {
		return domain.Progress{}, fmt.Errorf("%w: screenshot %d", ErrNoDisplayedItem, screenshotID)
	}
	item := sess.currentEval
	task := sess.evalTask

	if value == domain.DiscardScore {
		err := store.RunInTransaction(ctx, m.db, func(ctx context.Context, tx *sql.Tx) error {
			return m.decisions.WithTx(tx).DiscardROI(ctx, raterID, item.Screenshot.ROI)
		})
		if err != nil {
			return domain.Progress{}, NewSessionError("record_score", "discard cascade failed", err)
		}
	} else {
		if err := m.validateScoreValue(ctx, value); err != nil {
			return domain.Progress{}, err
		}
		err := m.decisions.RecordScore(ctx, &domain.EvaluationScore{
			ScreenshotID: screenshotID,
			RaterID:      raterID,
			Score:        value,
		})
		if err != nil {
			return domain.Progress{}, err
		}
	}

	sess.clearItem()
	sess.state = StateItemDecided

	progress, err := m.items.EvaluationProgress(ctx, raterID, task.Overlays)
	if err != nil {
		return domain.Progress{}, NewSessionError("record_score", "failed to refresh progress", err)
	}
	if progress.Remaining == 0 {
		sess.state = StateDone
	}
	log.Info("score recorded",
		slog.Int64("rater_id", raterID),
		slog.Int64("screenshot_id", screenshotID),
		slog.Int("score", value),
		slog.Int("remaining", progress.Remaining))
	return progress, nil
}

// validateScoreValue checks a non-discard score against the configured
// score buttons.
func (m *Manager) validateScoreValue(ctx context.Context, value int) error {
	options, err := m.catalog.ScoreOptions(ctx)
	if err != nil {
		return NewSessionError("record_score", "failed to load score options", err)
	}
	for _, opt := range options {
		if opt.Value == value {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", domain.ErrInvalidScoreValue, value)
}

// RecordChoice resolves the chosen slot of the displayed comparison item to
// an overlay id via the current binding and records it. Returns the
// refreshed task progress.
func (m *Manager) RecordChoice(ctx context.Context, raterID int64, slot int) (domain.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	sess := m.session(raterID)
	if sess.kind != taskComparison || sess.state != StateItemDisplayed ||
		sess.currentComp == nil || sess.currentBinding == nil {
		return domain.Progress{}, ErrNoDisplayedItem
	}
	item := sess.currentComp
	task := sess.compTask
	overlayID := sess.currentBinding.ChosenOverlay(slot)

	err := m.decisions.RecordChoice(ctx, &domain.ComparisonChoice{
		ScreenshotID:  item.Bounds.ID,
		RaterID:       raterID,
		BestOverlayID: overlayID,
	})
	if err != nil {
		return domain.Progress{}, err
	}

	sess.clearItem()
	sess.state = StateItemDecided

	progress, err := m.items.ComparisonProgress(ctx, raterID, *task)
	if err != nil {
		return domain.Progress{}, NewSessionError("record_choice", "failed to refresh progress", err)
	}
	if progress.Remaining == 0 {
		sess.state = StateDone
	}
	log.Info("choice recorded",
		slog.Int64("rater_id", raterID),
		slog.Int64("bounds_screenshot_id", item.Bounds.ID),
		slog.Int64("best_overlay_id", overlayID),
		slog.Int("remaining", progress.Remaining))
	return progress, nil
}

// Undo deletes the rater's most recent score and re-arms it as the sticky
// item when an evaluation task is active, so the next draw shows it again.
// Discards are refused: their cascade cannot be reversed row by row.
func (m *Manager) Undo(ctx context.Context, raterID int64) (*domain.EvaluationScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, m.logger)

	latest, err := m.decisions.LatestScore(ctx, raterID)
	if err != nil {
		if errors.Is(err, store.ErrScoreNotFound) {
			return nil, ErrNothingToUndo
		}
		return nil, NewSessionError("undo", "failed to look up last score", err)
	}
	if latest.IsDiscard() {
		return nil, ErrUndoDiscard
	}

	if err := m.decisions.DeleteScoreRow(ctx, latest.RowID); err != nil {
		return nil, NewSessionError("undo", "failed to delete score row", err)
	}

	sess := m.session(raterID)
	if sess.kind == taskEvaluation {
		sess.clearItem()
		sess.stickyID = latest.ScreenshotID
		sess.state = StateTaskActive
	}

	log.Info("score undone",
		slog.Int64("rater_id", raterID),
		slog.Int64("screenshot_id", latest.ScreenshotID),
		slog.Int("score", latest.Score))
	return latest, nil
}
