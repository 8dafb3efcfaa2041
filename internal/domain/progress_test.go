package domain

import "testing"

func TestProgressPercent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		progress Progress
		want     int
		ok       bool
	}{
		{Progress{Total: 10, Remaining: 10}, 0, true},
		{Progress{Total: 10, Remaining: 5}, 50, true},
		{Progress{Total: 10, Remaining: 0}, 100, true},
		{Progress{Total: 3, Remaining: 1}, 67, true}, // rounded, not truncated
		{Progress{Total: 0, Remaining: 0}, 0, false},
	}

	for _, tc := range cases {
		got, ok := tc.progress.Percent()
		if got != tc.want || ok != tc.ok {
			t.Errorf("Percent() of %+v = (%d, %v), want (%d, %v)",
				tc.progress, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProgressLabel(t *testing.T) {
	t.Parallel()

	done := Progress{Total: 4, Remaining: 0}
	if got := done.Label(true); got != "Completed!" {
		t.Errorf("summary label = %q, want Completed!", got)
	}
	if got := done.Label(false); got != "100%" {
		t.Errorf("in-task label = %q, want 100%%", got)
	}

	empty := Progress{}
	if got := empty.Label(true); got != "0%" {
		t.Errorf("no-data label = %q, want 0%%", got)
	}

	half := Progress{Total: 4, Remaining: 2}
	if got := half.Label(true); got != "50%" {
		t.Errorf("half label = %q, want 50%%", got)
	}
}
