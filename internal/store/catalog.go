package store

import (
	"context"

	"github.com/overlaylab/rater-api/internal/domain"
)

// CatalogStore defines the interface for the static study configuration:
// overlays, task definitions, score buttons, and contact info. These tables
// are written by the study tooling, never by the service, so the interface
// is read-only.
type CatalogStore interface {
	// Overlays returns all overlay layers, including the bounds layer.
	Overlays(ctx context.Context) ([]domain.Overlay, error)

	// BoundsOverlayID returns the id of the overlay named
	// domain.BoundsOverlayName. Returns ErrBoundsOverlayNotFound when the
	// database carries no such row. Loaded once per session and cached.
	BoundsOverlayID(ctx context.Context) (int64, error)

	// EvaluationTasks returns all evaluation task definitions, each with
	// its canonical overlay set.
	EvaluationTasks(ctx context.Context) ([]domain.EvaluationTask, error)

	// ComparisonTasks returns all comparison task definitions.
	ComparisonTasks(ctx context.Context) ([]domain.ComparisonTask, error)

	// ScoreOptions returns the configured score buttons in ascending
	// value order.
	ScoreOptions(ctx context.Context) ([]domain.ScoreOption, error)

	// Contact returns the study contact row. Returns ErrNotFound when the
	// table is empty.
	Contact(ctx context.Context) (*domain.Contact, error)
}
