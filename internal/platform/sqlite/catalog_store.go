package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/overlaylab/rater-api/internal/domain"
	"github.com/overlaylab/rater-api/internal/platform/logger"
	"github.com/overlaylab/rater-api/internal/store"
)

// CatalogStore implements the store.CatalogStore interface using a SQLite
// database as the storage backend. All queries are read-only.
type CatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCatalogStore creates a new SQLite implementation of the CatalogStore
// interface. If logger is nil, a default logger will be used.
func NewCatalogStore(db store.DBTX, logger *slog.Logger) *CatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

// Ensure CatalogStore implements store.CatalogStore interface
var _ store.CatalogStore = (*CatalogStore)(nil)

// Overlays implements store.CatalogStore.Overlays
func (s *CatalogStore) Overlays(ctx context.Context) ([]domain.Overlay, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT OverlayId, Name FROM Overlays ORDER BY OverlayId`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var overlays []domain.Overlay
	for rows.Next() {
		var o domain.Overlay
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, MapError(err)
		}
		overlays = append(overlays, o)
	}
	return overlays, MapError(rows.Err())
}

// BoundsOverlayID implements store.CatalogStore.BoundsOverlayID
func (s *CatalogStore) BoundsOverlayID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT OverlayId FROM Overlays WHERE Name = ?`,
		domain.BoundsOverlayName).Scan(&id)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return 0, store.ErrBoundsOverlayNotFound
		}
		return 0, MapError(err)
	}
	return id, nil
}

// EvaluationTasks implements store.CatalogStore.EvaluationTasks
func (s *CatalogStore) EvaluationTasks(ctx context.Context) ([]domain.EvaluationTask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT EvaluationTaskId, OverlayId FROM EvaluationTasks ORDER BY EvaluationTaskId`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	overlaysByTask := make(map[int64][]int64)
	var order []int64
	for rows.Next() {
		var taskID, overlayID int64
		if err := rows.Scan(&taskID, &overlayID); err != nil {
			return nil, MapError(err)
		}
		if _, seen := overlaysByTask[taskID]; !seen {
			order = append(order, taskID)
		}
		overlaysByTask[taskID] = append(overlaysByTask[taskID], overlayID)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	tasks := make([]domain.EvaluationTask, 0, len(order))
	for _, taskID := range order {
		set := domain.NewOverlaySet(overlaysByTask[taskID]...)
		if err := set.Validate(); err != nil {
			log.Error("evaluation task with empty overlay set",
				slog.Int64("task_id", taskID))
			return nil, fmt.Errorf("%w: evaluation task %d: %v",
				store.ErrInvalidEntity, taskID, err)
		}
		tasks = append(tasks, domain.EvaluationTask{ID: taskID, Overlays: set})
	}
	return tasks, nil
}

// ComparisonTasks implements store.CatalogStore.ComparisonTasks
func (s *CatalogStore) ComparisonTasks(ctx context.Context) ([]domain.ComparisonTask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ComparisonTaskId, OverlayId1, OverlayId2 FROM ComparisonTasks ORDER BY ComparisonTaskId`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []domain.ComparisonTask
	for rows.Next() {
		var id, a, b int64
		if err := rows.Scan(&id, &a, &b); err != nil {
			return nil, MapError(err)
		}
		task, err := domain.NewComparisonTask(id, a, b)
		if err != nil {
			return nil, fmt.Errorf("%w: comparison task %d: %v",
				store.ErrInvalidEntity, id, err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, MapError(rows.Err())
}

// ScoreOptions implements store.CatalogStore.ScoreOptions
func (s *CatalogStore) ScoreOptions(ctx context.Context) ([]domain.ScoreOption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT Value, Label, Color, Description, Keys FROM Scores`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var options []domain.ScoreOption
	for rows.Next() {
		var (
			opt  domain.ScoreOption
			keys string
		)
		if err := rows.Scan(&opt.Value, &opt.Label, &opt.Color, &opt.Description, &keys); err != nil {
			return nil, MapError(err)
		}
		opt.Keys, err = domain.ParseScoreKeys(keys)
		if err != nil {
			return nil, fmt.Errorf("%w: score %d keys %q: %v",
				store.ErrInvalidEntity, opt.Value, keys, err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })
	return options, nil
}

// Contact implements store.CatalogStore.Contact
func (s *CatalogStore) Contact(ctx context.Context) (*domain.Contact, error) {
	var c domain.Contact
	err := s.db.QueryRowContext(ctx,
		`SELECT Name, Email, Subject FROM Contacts LIMIT 1`).
		Scan(&c.Name, &c.Email, &c.Subject)
	if err != nil {
		return nil, MapError(err)
	}
	return &c, nil
}
