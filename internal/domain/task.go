package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EvaluationTask is an ordered list of overlay ids to be scored
// individually, one screenshot at a time.
type EvaluationTask struct {
	ID       int64      `json:"id"`
	Overlays OverlaySet `json:"overlays"`
}

// Validate checks if the EvaluationTask has valid data.
func (t *EvaluationTask) Validate() error {
	return t.Overlays.Validate()
}

// ComparisonTask is a pair of overlay ids to be compared pairwise.
// The pair is stored in canonical (ascending) order.
type ComparisonTask struct {
	ID       int64 `json:"id"`
	OverlayA int64 `json:"overlay_a"`
	OverlayB int64 `json:"overlay_b"`
}

// NewComparisonTask builds a ComparisonTask with the overlay pair in
// canonical order.
func NewComparisonTask(id, overlay1, overlay2 int64) (*ComparisonTask, error) {
	if overlay1 == overlay2 {
		return nil, ErrIdenticalOverlays
	}
	if overlay1 > overlay2 {
		overlay1, overlay2 = overlay2, overlay1
	}
	return &ComparisonTask{ID: id, OverlayA: overlay1, OverlayB: overlay2}, nil
}

// Overlays returns the task's overlay pair as a canonical OverlaySet.
func (t *ComparisonTask) Overlays() OverlaySet {
	return NewOverlaySet(t.OverlayA, t.OverlayB)
}

// ScoreOption is one configured score button: its stored value, UI label
// and color, a description shown on the help page, and optional extra key
// codes bound to it.
type ScoreOption struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
	Keys        []int  `json:"keys"`
}

// ParseScoreKeys parses the comma-separated key-code list stored in the
// Scores table ("37,39" and the like) into integer key codes.
func ParseScoreKeys(keys string) ([]int, error) {
	keys = strings.TrimSpace(keys)
	if keys == "" {
		return nil, nil
	}
	parts := strings.Split(keys, ",")
	codes := make([]int, 0, len(parts))
	for _, p := range parts {
		code, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid key code %q: %w", p, err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Contact is the study contact shown by the UI so raters can report issues
// with the database they were handed.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}
