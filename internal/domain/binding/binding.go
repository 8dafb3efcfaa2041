// Package binding assigns the two overlays of a comparison item to stable
// UI choice slots. When the whole comparison task uses only two rendered
// colors, slot colors are fixed once and overlays are matched to slots by
// color, so the choice buttons never change color between items. Otherwise
// the slot order is randomized per item.
package binding

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/overlaylab/rater-api/internal/domain"
)

// ErrColorMismatch indicates a presentation-invariant failure: the item's
// rendered colors cannot be resolved to distinct slots. The item cannot be
// displayed safely, but the session itself is unaffected; the rater must
// reload and re-select.
var ErrColorMismatch = errors.New("overlay color mismatch")

// Binding is the result of assigning a comparison item's two sides to the
// two choice slots. Index 0 is slot A, index 1 is slot B; the third
// "neither" slot carries no side.
type Binding struct {
	Slots  [2]domain.ComparisonSide
	Colors [2]string
}

// ChosenOverlay maps a slot index selected by the rater to the overlay id
// to record. Any index outside the two bound slots means "neither".
func (b *Binding) ChosenOverlay(slot int) int64 {
	if slot == 0 || slot == 1 {
		return b.Slots[slot].OverlayID
	}
	return domain.NeitherOverlayID
}

// Binder computes slot assignments. The random source is injectable for
// deterministic tests; a nil source falls back to the global one.
type Binder struct {
	rng *rand.Rand
}

// NewBinder creates a Binder using the given random source.
func NewBinder(rng *rand.Rand) *Binder {
	return &Binder{rng: rng}
}

// TaskColors normalizes the distinct rendered colors of a comparison task
// into the canonical cached form: unique lowercase hex values, sorted.
// Global two-color mode is in effect exactly when the result has length 2.
func TaskColors(colors []string) ([]string, error) {
	seen := make(map[string]struct{}, len(colors))
	normalized := make([]string, 0, len(colors))
	for _, c := range colors {
		hex, err := domain.NormalizeColor(c)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[hex]; ok {
			continue
		}
		seen[hex] = struct{}{}
		normalized = append(normalized, hex)
	}
	sort.Strings(normalized)
	return normalized, nil
}

// Bind assigns the item's two sides to slots A and B. taskColors is the
// cached task-wide color list from TaskColors; with exactly two entries the
// binder operates in global two-color mode, otherwise slot order is a
// uniform random permutation and slot colors follow the item.
func (b *Binder) Bind(item *domain.ComparisonItem, taskColors []string) (*Binding, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	color0, err := domain.NormalizeColor(item.Sides[0].Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrColorMismatch, err)
	}
	color1, err := domain.NormalizeColor(item.Sides[1].Color)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrColorMismatch, err)
	}
	if color0 == color1 {
		return nil, fmt.Errorf("%w: both overlays rendered as %s", ErrColorMismatch, color0)
	}

	if len(taskColors) == 2 {
		return bindGlobal(item, taskColors, color0, color1)
	}

	binding := &Binding{
		Slots:  [2]domain.ComparisonSide{item.Sides[0], item.Sides[1]},
		Colors: [2]string{color0, color1},
	}
	if b.intn(2) == 1 {
		binding.Slots[0], binding.Slots[1] = binding.Slots[1], binding.Slots[0]
		binding.Colors[0], binding.Colors[1] = binding.Colors[1], binding.Colors[0]
	}
	return binding, nil
}

// bindGlobal matches sides to the fixed slot colors by their actual
// rendered color.
func bindGlobal(item *domain.ComparisonItem, taskColors []string, color0, color1 string) (*Binding, error) {
	switch {
	case taskColors[0] == color0 && taskColors[1] == color1:
		return &Binding{
			Slots:  [2]domain.ComparisonSide{item.Sides[0], item.Sides[1]},
			Colors: [2]string{taskColors[0], taskColors[1]},
		}, nil
	case taskColors[0] == color1 && taskColors[1] == color0:
		return &Binding{
			Slots:  [2]domain.ComparisonSide{item.Sides[1], item.Sides[0]},
			Colors: [2]string{taskColors[0], taskColors[1]},
		}, nil
	default:
		return nil, fmt.Errorf(
			"%w: expected overlay colors %s or %s, got %s and %s",
			ErrColorMismatch, taskColors[0], taskColors[1], color0, color1)
	}
}

func (b *Binder) intn(n int) int {
	if b.rng != nil {
		return b.rng.Intn(n)
	}
	return rand.Intn(n)
}
