package cellfx

import (
	"errors"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestParallaxFactor(t *testing.T) {
	c := NewCamera()
	if f := c.ParallaxFactor(0); f != 1 {
		t.Errorf("factor(0) = %v, want 1", f)
	}
	if f := c.ParallaxFactor(1); f != 0.5 {
		t.Errorf("factor(1) = %v, want 0.5", f)
	}
	prev := 1.0
	for d := 0.5; d <= 10; d += 0.5 {
		f := c.ParallaxFactor(d)
		if f >= prev || f <= 0 {
			t.Fatalf("factor(%v) = %v, not strictly between 0 and %v", d, f, prev)
		}
		prev = f
	}
	if f := c.ParallaxFactor(1e9); f > 1e-8 {
		t.Errorf("far factor = %v, want close to 0", f)
	}
	if f := c.ParallaxFactor(-4); f != 1 {
		t.Errorf("negative depth factor = %v, want 1", f)
	}

	c.DepthScale = 0
	if f := c.ParallaxFactor(5); f != 1 {
		t.Errorf("zero depth scale factor = %v, want 1", f)
	}
	c.DepthScale = 1
	c.Mode = CameraOrthographic
	if f := c.ParallaxFactor(5); f != 1 {
		t.Errorf("orthographic factor = %v, want 1", f)
	}
}

func TestCameraOffset(t *testing.T) {
	c := NewCamera()
	c.Set(100, -40)
	if x, y := c.Offset(1); x != 50 || y != -20 {
		t.Errorf("Offset(1) = (%v,%v), want (50,-20)", x, y)
	}
	c.Move(10, 10)
	if x, y := c.Position(); x != 110 || y != -30 {
		t.Errorf("Position = (%v,%v)", x, y)
	}
}

func TestParseCameraMode(t *testing.T) {
	tests := []struct {
		in   string
		want CameraMode
		err  bool
	}{
		{"perspective", CameraPerspective, false},
		{" Orthographic ", CameraOrthographic, false},
		{"isometric", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCameraMode(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidCameraMode) {
				t.Errorf("%q: err = %v, want ErrInvalidCameraMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%q = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if s := CameraOrthographic.String(); s != "orthographic" {
		t.Errorf("String = %q", s)
	}
}

func TestCameraScrollTo(t *testing.T) {
	c := NewCamera()
	c.ScrollTo(100, 50, 1, ease.Linear)
	if !c.Scrolling() {
		t.Fatal("Scrolling = false after ScrollTo")
	}
	c.update(0.5)
	if x, y := c.Position(); !approxEqual(x, 50, 1e-4) || !approxEqual(y, 25, 1e-4) {
		t.Errorf("halfway = (%v,%v), want (50,25)", x, y)
	}
	c.update(0.5)
	if x, y := c.Position(); x != 100 || y != 50 {
		t.Errorf("end = (%v,%v), want (100,50)", x, y)
	}
	if c.Scrolling() {
		t.Error("still scrolling after the duration")
	}

	c.ScrollTo(0, 0, 1, nil)
	c.Set(7, 7)
	c.update(0.5)
	if x, y := c.Position(); x != 7 || y != 7 {
		t.Errorf("Set did not cancel the scroll: (%v,%v)", x, y)
	}
}

func TestCameraFollow(t *testing.T) {
	w := newTestWindow(10, 10)
	s := NewSprite(ColorWhite, SingleCharFrame('@'))
	s.MoveTo(5, 3, true)
	id := w.AddSprite(s)
	w.Update(0)

	c := NewCamera()
	c.Follow(w, id, -10, -5, 1)
	c.update(0.016)
	if x, y := c.Position(); x != 10 || y != 7 {
		t.Errorf("snap follow = (%v,%v), want (10,7)", x, y)
	}

	c.Set(0, 0)
	c.Follow(w, id, 0, 0, 0.5)
	c.update(0.016)
	if x, y := c.Position(); x != 10 || y != 6 {
		t.Errorf("eased follow = (%v,%v), want (10,6)", x, y)
	}

	w.RemoveEntity(id)
	c.update(0.016)
	if x, y := c.Position(); x != 10 || y != 6 {
		t.Errorf("camera moved after its target was removed: (%v,%v)", x, y)
	}
	if c.follow != nil {
		t.Error("follow not dropped after the entity was removed")
	}
}

func TestCameraBounds(t *testing.T) {
	c := NewCamera()
	c.SetBounds(Rect{X: 0, Y: 0, Width: 100, Height: 50})
	c.Set(150, -10)
	c.update(0)
	if x, y := c.Position(); x != 100 || y != 0 {
		t.Errorf("clamped = (%v,%v), want (100,0)", x, y)
	}
	c.ClearBounds()
	c.Set(150, -10)
	c.update(0)
	if x, y := c.Position(); x != 150 || y != -10 {
		t.Errorf("unbounded = (%v,%v)", x, y)
	}
}

func TestCameraBoundsZeroExtentAxisIsFree(t *testing.T) {
	tests := []struct {
		name         string
		bounds       Rect
		x, y         float64
		wantX, wantY float64
	}{
		{"zero width", Rect{X: 0, Y: 0, Width: 0, Height: 50}, 150, 70, 150, 50},
		{"zero height", Rect{X: 10, Y: 0, Width: 100, Height: 0}, -5, -40, 10, -40},
		{"zero size", Rect{X: 3, Y: 3}, -7, 99, -7, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera()
			c.SetBounds(tt.bounds)
			c.Set(tt.x, tt.y)
			c.update(0)
			if x, y := c.Position(); x != tt.wantX || y != tt.wantY {
				t.Errorf("position = (%v,%v), want (%v,%v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestTweenLightPosition(t *testing.T) {
	l := NewLight(0, 0, 3)
	g := TweenLightPosition(l, 10, 20, 1, nil)
	g.Update(0.5)
	if !approxEqual(l.X, 5, 1e-4) || !approxEqual(l.Y, 10, 1e-4) || g.Done {
		t.Errorf("halfway = (%v,%v) done %v", l.X, l.Y, g.Done)
	}
	g.Update(0.5)
	if l.X != 10 || l.Y != 20 || !g.Done {
		t.Errorf("end = (%v,%v) done %v", l.X, l.Y, g.Done)
	}
}

func TestTweenStopsWhenTargetDies(t *testing.T) {
	e := NewEmitter(1, 1, DefaultEmitterConfig())
	g := TweenEmitterPosition(e, 9, 9, 1, ease.OutQuad)
	e.Kill()
	g.Update(0.5)
	if !g.Done || e.X != 1 || e.Y != 1 {
		t.Errorf("done %v, emitter at (%v,%v)", g.Done, e.X, e.Y)
	}
}

func TestTweenBloomIntensity(t *testing.T) {
	w := newTestWindow(4, 4)
	w.SetBloom(true, 200, 4, 2)
	g := TweenBloomIntensity(w, 0, 1, nil)
	g.Update(1)
	if b := w.Bloom(); b.Intensity != 0 || b.Threshold != 200 || !b.Enabled {
		t.Errorf("bloom = %+v", b)
	}
}

func TestTweenEffectPosition(t *testing.T) {
	p := NewEffectChar('*', ColorWhite)
	g := TweenEffectPosition(p, 4, 8, 1, nil)
	g.Update(0.5)
	if !approxEqual(p.X, 2, 1e-4) || !approxEqual(p.Y, 4, 1e-4) {
		t.Errorf("halfway = (%v,%v), want (2,4)", p.X, p.Y)
	}
	p.Kill()
	g.Update(0.5)
	if !g.Done || !approxEqual(p.X, 2, 1e-4) {
		t.Errorf("done %v, effect at x %v after it died", g.Done, p.X)
	}
}
