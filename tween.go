package cellfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields at once. Create one with the
// Tween* constructors and either call Update(dt) yourself or hand it to
// Engine.AddTween. When the target reports it is gone, the group stops
// without writing.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	alive  func() bool
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.alive != nil && !g.alive() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

func (g *TweenGroup) add(field *float64, to float64, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	g.tweens[g.count] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[g.count] = field
	g.count++
}

// TweenLightPosition moves a light to (toX, toY) cells.
func TweenLightPosition(l *Light, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&l.X, toX, duration, fn)
	g.add(&l.Y, toY, duration, fn)
	return g
}

// TweenLightIntensity fades a light's intensity.
func TweenLightIntensity(l *Light, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&l.Intensity, to, duration, fn)
	return g
}

// TweenLightRadius grows or shrinks a light.
func TweenLightRadius(l *Light, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&l.Radius, to, duration, fn)
	return g
}

// TweenEmitterPosition moves an emitter. The group stops once the emitter
// dies.
func TweenEmitterPosition(e *Emitter, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{alive: e.Alive}
	g.add(&e.X, toX, duration, fn)
	g.add(&e.Y, toY, duration, fn)
	return g
}

// TweenEffectPosition moves an effect sprite, stopping when it dies.
func TweenEffectPosition(e *EffectSprite, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{alive: e.Alive}
	g.add(&e.X, toX, duration, fn)
	g.add(&e.Y, toY, duration, fn)
	return g
}

// TweenBloomIntensity fades the bloom intensity of w. The window keeps its
// other bloom settings.
func TweenBloomIntensity(w *Window, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&w.bloom.Intensity, max(to, 0), duration, fn)
	return g
}
