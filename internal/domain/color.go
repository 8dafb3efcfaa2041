package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	rgbColorRe = regexp.MustCompile(`^rgb\((\d+),\s*(\d+),\s*(\d+)\)$`)
)

// NormalizeColor converts a rendered overlay color to its canonical form:
// a lowercase "#rrggbb" hex string. Screenshot colors are stored either as
// hex or as "rgb(r, g, b)" strings depending on which tool rendered them,
// so every color comparison in the engine goes through this normalization.
func NormalizeColor(color string) (string, error) {
	c := strings.TrimSpace(color)
	if hexColorRe.MatchString(c) {
		return strings.ToLower(c), nil
	}
	m := rgbColorRe.FindStringSubmatch(c)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	var rgb [3]int64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || v > 255 {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
		rgb[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), nil
}
