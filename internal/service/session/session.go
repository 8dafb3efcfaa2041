package session

import (
	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/domain/binding"
)

// State is the position of a session in the task lifecycle.
type State int

const (
	// StateIdle means no task is active (login, task list, summary pages).
	StateIdle State = iota

	// StateTaskActive means a task is entered but no item is on display,
	// for example right after entering or after an undo re-armed an item.
	StateTaskActive

	// StateItemDisplayed means an item has been drawn and awaits a decision.
	StateItemDisplayed

	// StateItemDecided means the displayed item received a decision and the
	// next draw has not happened yet.
	StateItemDecided

	// StateDone means the active task has no undecided items left.
	StateDone
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTaskActive:
		return "task_active"
	case StateItemDisplayed:
		return "item_displayed"
	case StateItemDecided:
		return "item_decided"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// taskKind distinguishes the two task families within a session.
type taskKind int

const (
	taskNone taskKind = iota
	taskEvaluation
	taskComparison
)

// session is the transient per-rater state. Everything here can be thrown
// away and rebuilt from the database except the currently displayed item.
type session struct {
	state State
	kind  taskKind

	evalTask *domain.EvaluationTask
	compTask *domain.ComparisonTask

	// stickyID pins the displayed item across reloads: the screenshot id
	// for evaluation items, the bounds screenshot id for comparison items.
	// Zero means nothing is pinned.
	stickyID int64

	// taskColors is the normalized task-wide color list, derived once at
	// comparison task entry.
	taskColors []string

	// currentEval / currentComp hold the displayed item; currentBinding
	// resolves choice slots back to overlay ids.
	currentEval    *domain.EvaluationItem
	currentComp    *domain.ComparisonItem
	currentBinding *binding.Binding
}

// reset returns the session to Idle, discarding all transient state.
func (s *session) reset() {
	*s = session{}
}

// clearItem drops the displayed item but keeps the task active.
func (s *session) clearItem() {
	s.stickyID = 0
	s.currentEval = nil
	s.currentComp = nil
	s.currentBinding = nil
}
