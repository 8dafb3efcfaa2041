package store

import (
	"context"

	"github.com/overlaylab/rater-api/internal/domain"
)

// ItemStore defines the interface for item eligibility, selection, and
// progress queries. Eligibility is never materialized: every method
// re-evaluates the exact-overlay-set predicates against the current data.
//
// An ROI is eligible for a required overlay set when its non-bounds
// screenshots carry exactly that set: no screenshot with a foreign overlay,
// and all required overlays present. Screenshot count per overlay does not
// matter.
type ItemStore interface {
	// RemainingOverlays returns the distinct overlays of an evaluation
	// task that still have at least one eligible, unrated screenshot for
	// the rater. The result feeds the first stage of the two-stage draw.
	// An empty slice means the task is completed.
	RemainingOverlays(ctx context.Context, raterID int64, required domain.OverlaySet) ([]int64, error)

	// NextEvaluationItem returns one uniformly random eligible, unrated
	// screenshot carrying the given overlay, together with its ROI bounds
	// screenshot. Returns ErrItemNotFound when none remain.
	NextEvaluationItem(ctx context.Context, raterID int64, required domain.OverlaySet, overlayID int64) (*domain.EvaluationItem, error)

	// GetEvaluationItem re-fetches a specific screenshot under the same
	// eligibility and unrated predicates as NextEvaluationItem. It backs
	// sticky resumption: ErrItemNotFound means the sticky item no longer
	// qualifies and a fresh draw is needed.
	GetEvaluationItem(ctx context.Context, raterID int64, required domain.OverlaySet, screenshotID int64) (*domain.EvaluationItem, error)

	// EvaluationProgress counts eligible screenshots across the task's
	// overlays (Total) and those still unrated by the rater (Remaining).
	EvaluationProgress(ctx context.Context, raterID int64, required domain.OverlaySet) (domain.Progress, error)

	// NextComparisonItem returns one uniformly random eligible ROI the
	// rater has not yet decided, with both overlay sides and the bounds
	// screenshot. Returns ErrItemNotFound when none remain, and
	// ErrInvalidEntity when an eligible ROI lacks a bounds screenshot or
	// a side.
	NextComparisonItem(ctx context.Context, raterID int64, task domain.ComparisonTask) (*domain.ComparisonItem, error)

	// GetComparisonItem re-fetches the comparison item whose bounds
	// screenshot has the given id, under the same predicates as
	// NextComparisonItem. Backs sticky resumption.
	GetComparisonItem(ctx context.Context, raterID int64, task domain.ComparisonTask, boundsScreenshotID int64) (*domain.ComparisonItem, error)

	// ComparisonProgress counts eligible ROIs (Total) and those still
	// undecided by the rater (Remaining).
	ComparisonProgress(ctx context.Context, raterID int64, task domain.ComparisonTask) (domain.Progress, error)

	// TaskColors returns the distinct rendered colors, as stored, across
	// all screenshots of the task's two overlays. The binder normalizes
	// and caches them at task entry.
	TaskColors(ctx context.Context, task domain.ComparisonTask) ([]string, error)
}
