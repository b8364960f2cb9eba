package lighting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned for colors that are not #rgb, #rgba, #rrggbb or #rrggbbaa.
var ErrInvalidHex = errors.New("invalid hex color")

// ParseHex parses a CSS style hex color, returning the color and its alpha
// in [0, 1].
func ParseHex(s string) (colorful.Color, float64, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok {
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	alpha := 1.0
	switch len(digits) {
	case 3, 6:
	case 4, 8:
		n := len(digits) / 4
		a, err := strconv.ParseUint(expand(digits[len(digits)-n:]), 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		alpha = float64(a) / 255
		digits = digits[:len(digits)-n]
	default:
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	c, err := colorful.Hex("#" + expand(digits))
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return c, alpha, nil
}

// expand doubles each digit of a short form ("fa0" -> "ffaa00").
func expand(digits string) string {
	if len(digits) != 1 && len(digits) != 3 {
		return digits
	}
	var b strings.Builder
	for _, r := range digits {
		b.WriteRune(r)
		b.WriteRune(r)
	}
	return b.String()
}

// FormatHex renders #rrggbb, or #rrggbbaa when alpha is below 1.
func FormatHex(c colorful.Color, alpha float64) string {
	if alpha >= 1 {
		return c.Clamped().Hex()
	}
	a := uint8(math.Round(clamp(alpha, 0, 1) * 255))
	return fmt.Sprintf("%s%02x", c.Clamped().Hex(), a)
}

// IsDark reports whether text on base should be light. It uses YIQ
// brightness, as most color libraries do.
func IsDark(base string) bool {
	c, _, err := ParseHex(base)
	if err != nil {
		return false
	}
	r, g, b := c.RGB255()
	yiq := (float64(r)*299 + float64(g)*587 + float64(b)*114) / 1000
	return yiq < 128
}
