package domain

import (
	"errors"
	"testing"
)

func TestNormalizeColor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"#ff0000", "#ff0000"},
		{"#FF8800", "#ff8800"},
		{"rgb(255, 0, 0)", "#ff0000"},
		{"rgb(0,128,255)", "#0080ff"},
		{"rgb(1, 2, 3)", "#010203"},
	}

	for _, tc := range cases {
		got, err := NormalizeColor(tc.in)
		if err != nil {
			t.Fatalf("NormalizeColor(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("NormalizeColor(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeColorInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "red", "#ff00", "rgb(256, 0, 0)", "rgb(1,2)"} {
		if _, err := NormalizeColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("NormalizeColor(%q) error = %v, want ErrInvalidColor", in, err)
		}
	}
}
