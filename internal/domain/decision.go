package domain

// DiscardScore is the reserved evaluation score meaning "discard the whole
// ROI". Recording it triggers the discard cascade.
const DiscardScore = 0

// NeitherOverlayID is the reserved comparison choice meaning "neither
// overlay is better".
const NeitherOverlayID int64 = 0

// EvaluationScore is one rater's score for one evaluation screenshot.
// Rows are created once per (screenshot, rater) and deleted at most once by
// undo; they are never updated in place.
type EvaluationScore struct {
	ScreenshotID int64 `json:"screenshot_id"`
	RaterID      int64 `json:"rater_id"`
	Score        int   `json:"score"`

	// RowID is the SQLite rowid of the stored row. Insertion order is the
	// only ordering the table has, so undo targets the highest RowID.
	// Zero on scores that have not been stored yet.
	RowID int64 `json:"-"`
}

// IsDiscard reports whether this score discards its ROI.
func (s *EvaluationScore) IsDiscard() bool {
	return s.Score == DiscardScore
}

// ComparisonChoice is one rater's decision for one comparison item.
// The row is keyed by the item ROI's bounds screenshot id.
type ComparisonChoice struct {
	ScreenshotID  int64 `json:"screenshot_id"`
	RaterID       int64 `json:"rater_id"`
	BestOverlayID int64 `json:"best_overlay_id"`
}
