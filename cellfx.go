package cellfx

import (
	"errors"
	"math"
)

// Color is an 8-bit RGBA color. Not premultiplied.
//
// A zero alpha marks an optional color as unset: a cell background with A == 0
// is transparent and a frame override with A == 0 falls back to the default.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// IsSet reports whether c carries a color (non-zero alpha).
func (c Color) IsSet() bool {
	return c.A != 0
}

// Opaque returns c with full alpha.
func (c Color) Opaque() Color {
	c.A = 255
	return c
}

// Transparent is the unset color.
var Transparent = Color{}

// Vec2 is a 2D vector used for sub-cell offsets, velocities and pixel
// positions.
type Vec2 struct {
	X, Y float64
}

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// clamp limits (x, y) to the rectangle. An axis with zero extent is left
// unclamped.
func (r Rect) clamp(x, y float64) (float64, float64) {
	if r.Width != 0 {
		x = math.Max(r.X, math.Min(x, r.X+r.Width))
	}
	if r.Height != 0 {
		y = math.Max(r.Y, math.Min(y, r.Y+r.Height))
	}
	return x, y
}

// BlendMode selects a compositing operation for Surface.Blit.
// The RGB modes saturate per channel and leave destination alpha untouched.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // saturating RGB add
	BlendMultiply                  // RGB multiply (only darkens)
	BlendSubtract                  // saturating RGB subtract
	BlendNone                      // opaque copy (skip blending)
)

// String returns the mode name used in logs and config files.
func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendSubtract:
		return "subtract"
	case BlendNone:
		return "none"
	default:
		return "unknown"
	}
}

// EntityID identifies an entity inside a window's arena. IDs are never
// reused, so a stale ID simply fails to resolve.
type EntityID uint64

var (
	// ErrWindowNotFound is returned when a window name is not registered.
	ErrWindowNotFound = errors.New("cellfx: window not found")
	// ErrWindowExists is returned when a window name is already taken.
	ErrWindowExists = errors.New("cellfx: window already exists")
	// ErrAnimationNotFound is returned when playing an unregistered animation.
	ErrAnimationNotFound = errors.New("cellfx: animation not found")
	// ErrInvalidCameraMode is returned for camera modes other than
	// perspective and orthographic.
	ErrInvalidCameraMode = errors.New("cellfx: invalid camera mode")
	// ErrInvalidFrame is returned when an animation references a frame the
	// sprite does not have.
	ErrInvalidFrame = errors.New("cellfx: invalid frame index")
	// ErrNoPixelAccess is returned when a surface has no addressable pixels.
	ErrNoPixelAccess = errors.New("cellfx: surface has no pixel access")
)
