package domain

import (
	"fmt"
	"math"
)

// Progress holds the per-task completion counters for one rater.
// Total counts all eligible items for the task independent of rater;
// Remaining counts the eligible items the rater has not decided yet.
type Progress struct {
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// Percent returns the rounded percentage of completed items. The second
// return value is false when Total is zero, in which case the ratio is
// undefined and the caller must render an explicit "no data" state rather
// than divide.
func (p Progress) Percent() (int, bool) {
	if p.Total == 0 {
		return 0, false
	}
	done := float64(p.Total-p.Remaining) / float64(p.Total)
	return int(math.Round(100 * done)), true
}

// Label renders the progress for display. In a summary context a finished
// task reads "Completed!" instead of "100%"; inside the task itself the
// percentage is shown either way.
func (p Progress) Label(summary bool) string {
	pct, ok := p.Percent()
	if !ok {
		return "0%"
	}
	if summary && p.Remaining == 0 {
		return "Completed!"
	}
	return fmt.Sprintf("%d%%", pct)
}
