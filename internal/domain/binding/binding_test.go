package binding

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/overlaylab/rater-api/internal/domain"
)

func comparisonItem(colorA, colorB string) *domain.ComparisonItem {
	return &domain.ComparisonItem{
		ROI: domain.ROIKey{ROIID: 7, CenterI: 10, CenterJ: 20, CenterK: 30, ViewID: "axial"},
		Sides: [2]domain.ComparisonSide{
			{Screenshot: domain.Screenshot{ID: 101, FileName: "a.png"}, OverlayID: 1, Color: colorA},
			{Screenshot: domain.Screenshot{ID: 102, FileName: "b.png"}, OverlayID: 2, Color: colorB},
		},
		Bounds: domain.Screenshot{ID: 100, FileName: "bounds.png"},
	}
}

func TestTaskColors(t *testing.T) {
	t.Parallel()

	t.Run("normalizes dedupes and sorts", func(t *testing.T) {
		t.Parallel()

		got, err := TaskColors([]string{"rgb(255, 0, 0)", "#00FF00", "#ff0000"})
		if err != nil {
			t.Fatalf("TaskColors: %v", err)
		}
		want := []string{"#00ff00", "#ff0000"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("color[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("rejects malformed color", func(t *testing.T) {
		t.Parallel()

		if _, err := TaskColors([]string{"#ff0000", "red"}); !errors.Is(err, domain.ErrInvalidColor) {
			t.Errorf("err = %v, want ErrInvalidColor", err)
		}
	})
}

func TestBindGlobalTwoColorMode(t *testing.T) {
	t.Parallel()

	taskColors := []string{"#00ff00", "#ff0000"}
	binder := NewBinder(rand.New(rand.NewSource(1)))

	t.Run("slot colors stay fixed regardless of side order", func(t *testing.T) {
		t.Parallel()

		forward := comparisonItem("#00ff00", "#ff0000")
		reversed := comparisonItem("#ff0000", "#00ff00")

		bf, err := binder.Bind(forward, taskColors)
		if err != nil {
			t.Fatalf("Bind(forward): %v", err)
		}
		br, err := binder.Bind(reversed, taskColors)
		if err != nil {
			t.Fatalf("Bind(reversed): %v", err)
		}

		if bf.Colors != br.Colors {
			t.Errorf("slot colors differ between items: %v vs %v", bf.Colors, br.Colors)
		}
		if bf.Slots[0].OverlayID != 1 || bf.Slots[1].OverlayID != 2 {
			t.Errorf("forward slots = %d,%d, want 1,2", bf.Slots[0].OverlayID, bf.Slots[1].OverlayID)
		}
		if br.Slots[0].OverlayID != 2 || br.Slots[1].OverlayID != 1 {
			t.Errorf("reversed slots = %d,%d, want 2,1", br.Slots[0].OverlayID, br.Slots[1].OverlayID)
		}
	})

	t.Run("rgb colors match hex task colors", func(t *testing.T) {
		t.Parallel()

		b, err := binder.Bind(comparisonItem("rgb(0, 255, 0)", "rgb(255, 0, 0)"), taskColors)
		if err != nil {
			t.Fatalf("Bind: %v", err)
		}
		if b.Slots[0].OverlayID != 1 {
			t.Errorf("slot A overlay = %d, want 1", b.Slots[0].OverlayID)
		}
	})

	t.Run("unmatched item color fails", func(t *testing.T) {
		t.Parallel()

		_, err := binder.Bind(comparisonItem("#0000ff", "#ff0000"), taskColors)
		if !errors.Is(err, ErrColorMismatch) {
			t.Errorf("err = %v, want ErrColorMismatch", err)
		}
	})
}

func TestBindPerItemMode(t *testing.T) {
	t.Parallel()

	t.Run("permutation follows random source", func(t *testing.T) {
		t.Parallel()

		item := comparisonItem("#00ff00", "#ff0000")

		sawForward, sawSwapped := false, false
		binder := NewBinder(rand.New(rand.NewSource(42)))
		for i := 0; i < 64 && !(sawForward && sawSwapped); i++ {
			b, err := binder.Bind(item, nil)
			if err != nil {
				t.Fatalf("Bind: %v", err)
			}
			switch b.Slots[0].OverlayID {
			case 1:
				sawForward = true
				if b.Colors[0] != "#00ff00" {
					t.Fatalf("slot A color = %q, want #00ff00", b.Colors[0])
				}
			case 2:
				sawSwapped = true
				if b.Colors[0] != "#ff0000" {
					t.Fatalf("slot A color = %q, want #ff0000", b.Colors[0])
				}
			}
		}
		if !sawForward || !sawSwapped {
			t.Errorf("expected both permutations, got forward=%v swapped=%v", sawForward, sawSwapped)
		}
	})

	t.Run("three task colors do not trigger global mode", func(t *testing.T) {
		t.Parallel()

		binder := NewBinder(rand.New(rand.NewSource(7)))
		taskColors := []string{"#0000ff", "#00ff00", "#ff0000"}
		if _, err := binder.Bind(comparisonItem("#00ff00", "#ff0000"), taskColors); err != nil {
			t.Errorf("Bind: %v", err)
		}
	})
}

func TestBindDuplicateSideColors(t *testing.T) {
	t.Parallel()

	binder := NewBinder(rand.New(rand.NewSource(3)))
	_, err := binder.Bind(comparisonItem("#ff0000", "rgb(255, 0, 0)"), nil)
	if !errors.Is(err, ErrColorMismatch) {
		t.Errorf("err = %v, want ErrColorMismatch", err)
	}
}

func TestBindingChosenOverlay(t *testing.T) {
	t.Parallel()

	b := &Binding{
		Slots: [2]domain.ComparisonSide{{OverlayID: 5}, {OverlayID: 9}},
	}
	if got := b.ChosenOverlay(0); got != 5 {
		t.Errorf("ChosenOverlay(0) = %d, want 5", got)
	}
	if got := b.ChosenOverlay(1); got != 9 {
		t.Errorf("ChosenOverlay(1) = %d, want 9", got)
	}
	if got := b.ChosenOverlay(2); got != domain.NeitherOverlayID {
		t.Errorf("ChosenOverlay(2) = %d, want %d", got, domain.NeitherOverlayID)
	}
}
