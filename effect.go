package cellfx

import "math"

// EffectSprite is a short-lived visual with a free-floating position and a
// velocity, used for particles, sparks and debris. Positions are in cells
// and velocities in cells per second.
type EffectSprite struct {
	spriteBase

	X, Y   float64
	VX, VY float64
	// Drag is the fraction of velocity kept after one second. Values in
	// (0, 1) decay velocity as Drag^dt; 1 disables drag.
	Drag float64
	// Gravity accelerates VY in cells per second squared. Positive values
	// pull down the screen.
	Gravity float64
	// FadeTime is the lifetime over which alpha falls to zero. Zero disables
	// fading.
	FadeTime float64
	// Duration is a hard lifetime with no fade. Zero lets FadeTime decide.
	Duration float64

	age   float64
	alive bool
}

// NewEffectSprite creates a living effect sprite from frames.
func NewEffectSprite(fg Color, frames ...*Frame) *EffectSprite {
	return &EffectSprite{
		spriteBase: newSpriteBase(frames, fg),
		Drag:       1,
		alive:      true,
	}
}

// NewEffectChar creates a single-character effect sprite.
func NewEffectChar(r rune, fg Color) *EffectSprite {
	return NewEffectSprite(fg, SingleCharFrame(r))
}

// Age returns the seconds since the effect started updating.
func (e *EffectSprite) Age() float64 { return e.age }

// Alive reports whether the effect is still running.
func (e *EffectSprite) Alive() bool { return e.alive }

// Kill ends the effect; the window drops it on its next update.
func (e *EffectSprite) Kill() {
	e.alive = false
	e.visible = false
}

// CellPosition returns the floating cell position.
func (e *EffectSprite) CellPosition() (float64, float64) { return e.X, e.Y }

// Cells visits the effect's non-space cells at its truncated position.
func (e *EffectSprite) Cells(fn func(x, y int)) {
	e.cells(int(e.X), int(e.Y), fn)
}

// Update moves the effect, applies gravity and drag and retires it once its duration or
// fade time has elapsed.
func (e *EffectSprite) Update(dt float64, _, _ int) {
	if !e.alive {
		return
	}
	e.age += dt
	e.VY += e.Gravity * dt
	e.X += e.VX * dt
	e.Y += e.VY * dt
	if e.Drag > 0 && e.Drag < 1 {
		decay := math.Pow(e.Drag, dt)
		e.VX *= decay
		e.VY *= decay
	}
	if e.Duration > 0 && e.age >= e.Duration {
		e.Kill()
		return
	}
	if e.FadeTime > 0 && e.age >= e.FadeTime {
		e.Kill()
	}
}

// Alpha returns the current opacity: 255 falling linearly to 0 over
// FadeTime.
func (e *EffectSprite) Alpha() uint8 {
	if e.FadeTime <= 0 {
		return 255
	}
	p := math.Min(1, e.age/e.FadeTime)
	return uint8(255 * (1 - p))
}

// Draw renders the effect at its cell position with the fade alpha.
func (e *EffectSprite) Draw(w *Window, dst *Surface) {
	if !e.visible {
		return
	}
	cw, ch := w.CellSize()
	px := e.X*float64(cw) - float64(e.Origin.X*cw)
	py := e.Y*float64(ch) - float64(e.Origin.Y*ch)
	e.drawFrame(w, dst, px, py, e.Alpha())
}
