package cellfx

import (
	"fmt"
	"math"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraMode selects how window depth affects camera movement.
type CameraMode uint8

const (
	// CameraPerspective scales camera movement by 1/(1+depth*DepthScale).
	CameraPerspective CameraMode = iota
	// CameraOrthographic moves every non-fixed window 1:1 with the camera.
	CameraOrthographic
)

// String returns the mode name.
func (m CameraMode) String() string {
	switch m {
	case CameraPerspective:
		return "perspective"
	case CameraOrthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("CameraMode(%d)", uint8(m))
	}
}

// ParseCameraMode parses "perspective" or "orthographic" (case-insensitive).
func ParseCameraMode(s string) (CameraMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perspective":
		return CameraPerspective, nil
	case "orthographic":
		return CameraOrthographic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCameraMode, s)
	}
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// cameraFollow tracks an entity in a window.
type cameraFollow struct {
	window           *Window
	id               EntityID
	offsetX, offsetY float64
	lerp             float64
}

// Camera is the view offset shared by all non-fixed windows. X and Y are in
// pixels; the compositor shifts every window by -camera*ParallaxFactor.
type Camera struct {
	X, Y float64
	Mode CameraMode
	// DepthScale is the parallax strength. 0 disables parallax.
	DepthScale float64

	// BoundsEnabled clamps the camera position into Bounds after every
	// update.
	BoundsEnabled bool
	Bounds        Rect

	follow      *cameraFollow
	scrollTween *scrollAnim
}

// NewCamera returns a perspective camera at the origin with DepthScale 1.
func NewCamera() *Camera {
	return &Camera{DepthScale: 1}
}

// Set moves the camera to (x, y) and cancels any scroll.
func (c *Camera) Set(x, y float64) {
	c.X, c.Y = x, y
	c.scrollTween = nil
}

// Move offsets the camera by (dx, dy).
func (c *Camera) Move(dx, dy float64) {
	c.X += dx
	c.Y += dy
}

// Position returns the camera position.
func (c *Camera) Position() (float64, float64) {
	return c.X, c.Y
}

// ParallaxFactor returns how strongly a window at depth follows the camera:
// 1/(1+depth*DepthScale) in perspective mode, 1 in orthographic mode.
// Negative depths are treated as zero.
func (c *Camera) ParallaxFactor(depth float64) float64 {
	if c.Mode == CameraOrthographic {
		return 1
	}
	d := math.Max(depth, 0) * c.DepthScale
	if d <= -1 {
		return 1
	}
	return 1 / (1 + d)
}

// Offset returns the pixel shift applied to a window at depth.
func (c *Camera) Offset(depth float64) (float64, float64) {
	f := c.ParallaxFactor(depth)
	return c.X * f, c.Y * f
}

// ScrollTo animates the camera to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Follow makes the camera track the entity with the given ID in w, in w's
// pixel space plus the offset. A lerp of 1 snaps every frame; lower values
// ease. The camera stops following once the entity is gone.
func (c *Camera) Follow(w *Window, id EntityID, offsetX, offsetY, lerp float64) {
	c.follow = &cameraFollow{window: w, id: id, offsetX: offsetX, offsetY: offsetY, lerp: lerp}
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// update advances follow, scroll and bounds clamping.
func (c *Camera) update(dt float64) {
	if f := c.follow; f != nil {
		if tx, ty, ok := f.target(); ok {
			c.X += (tx - c.X) * f.lerp
			c.Y += (ty - c.Y) * f.lerp
		} else {
			c.follow = nil
		}
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(float32(dt))
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(float32(dt))
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.X, c.Y = c.Bounds.clamp(c.X, c.Y)
	}
}

// target resolves the followed entity's pixel position.
func (f *cameraFollow) target() (float64, float64, bool) {
	e, ok := f.window.Entity(f.id)
	if !ok {
		return 0, 0, false
	}
	var x, y float64
	if s, isSprite := e.(*Sprite); isSprite {
		x, y = s.VisualPosition()
	} else {
		cx, cy := e.CellPosition()
		cw, ch := f.window.CellSize()
		x, y = cx*float64(cw), cy*float64(ch)
	}
	return x + f.offsetX, y + f.offsetY, true
}
