package domain

import "sort"

// BoundsOverlayName is the reserved overlay name identifying the ROI bounds
// layer. Screenshots carrying this overlay provide spatial context only and
// never count toward an item's overlay set.
const BoundsOverlayName = "ROI Bounds"

// Overlay is a named visual layer that can be drawn onto a screenshot.
// The identifier space is fixed per deployment and referenced by task
// definitions.
type Overlay struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OverlaySet is a canonical set of overlay identifiers: sorted ascending,
// no duplicates. Task eligibility is defined by exact equality of overlay
// sets, so the canonical form matters.
type OverlaySet []int64

// NewOverlaySet builds a canonical OverlaySet from the given ids.
func NewOverlaySet(ids ...int64) OverlaySet {
	seen := make(map[int64]struct{}, len(ids))
	set := make(OverlaySet, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set
}

// Contains reports whether id is a member of the set.
func (s OverlaySet) Contains(id int64) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Equal reports whether two canonical sets have identical members.
func (s OverlaySet) Equal(other OverlaySet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Validate checks that the set is non-empty.
func (s OverlaySet) Validate() error {
	if len(s) == 0 {
		return ErrEmptyOverlaySet
	}
	return nil
}
