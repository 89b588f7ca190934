package cellfx

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Common colors.
var (
	ColorBlack     = RGB(0, 0, 0)
	ColorWhite     = RGB(255, 255, 255)
	ColorRed       = RGB(255, 0, 0)
	ColorGreen     = RGB(0, 255, 0)
	ColorBlue      = RGB(0, 0, 255)
	ColorYellow    = RGB(255, 255, 0)
	ColorCyan      = RGB(0, 255, 255)
	ColorMagenta   = RGB(255, 0, 255)
	ColorOrange    = RGB(255, 165, 0)
	ColorGray      = RGB(128, 128, 128)
	ColorDarkGray  = RGB(64, 64, 64)
	ColorLightGray = RGB(192, 192, 192)
)

// clampByte clamps v to [0, 255].
func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LerpColor linearly interpolates the RGB channels of a and b. t is clamped
// to [0, 1] and channels are truncated. The result is opaque.
func LerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	return RGB(
		uint8(float64(a.R)+(float64(b.R)-float64(a.R))*t),
		uint8(float64(a.G)+(float64(b.G)-float64(a.G))*t),
		uint8(float64(a.B)+(float64(b.B)-float64(a.B))*t),
	)
}

// Brighten moves c toward white. amount 0 leaves c unchanged, 1 gives white.
func Brighten(c Color, amount float64) Color {
	return RGB(
		clampByte(int(float64(c.R)+(255-float64(c.R))*amount)),
		clampByte(int(float64(c.G)+(255-float64(c.G))*amount)),
		clampByte(int(float64(c.B)+(255-float64(c.B))*amount)),
	)
}

// Darken moves c toward black. amount 0 leaves c unchanged, 1 gives black.
func Darken(c Color, amount float64) Color {
	return MultiplyColor(c, 1-amount)
}

// MultiplyColor scales the RGB channels of c by factor, clamping to 255.
func MultiplyColor(c Color, factor float64) Color {
	return RGB(
		clampByte(int(float64(c.R)*factor)),
		clampByte(int(float64(c.G)*factor)),
		clampByte(int(float64(c.B)*factor)),
	)
}

// AddColors returns the saturating per-channel sum of a and b.
func AddColors(a, b Color) Color {
	return RGB(
		clampByte(int(a.R)+int(b.R)),
		clampByte(int(a.G)+int(b.G)),
		clampByte(int(a.B)+int(b.B)),
	)
}

// ParseColor parses a "#rrggbb" (or "#rgb") hex string into an opaque Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Transparent, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
