package cellfx

import (
	"bytes"
	"errors"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 5
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewDefaultEngine(t *testing.T) {
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(e.Windows()) != 1 || e.Root() == nil || e.Root().Name() != "root" {
		t.Fatalf("windows = %d, root %v", len(e.Windows()), e.Root())
	}
	if cw, ch := e.RootCellSize(); cw != 7 || ch != 13 {
		t.Errorf("root cell = %dx%d, want 7x13", cw, ch)
	}
	if f := e.Frame(); f.Width() != 560 || f.Height() != 325 {
		t.Errorf("frame = %dx%d, want 560x325", f.Width(), f.Height())
	}
	if e.Camera().Mode != CameraPerspective || e.Camera().DepthScale != 1 {
		t.Errorf("camera = %+v", *e.Camera())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := New(cfg); err == nil {
		t.Error("New accepted a zero-width root")
	}
}

func TestEngineWindows(t *testing.T) {
	e := newTestEngine(t)

	hud, err := e.CreateWindow("hud", WindowOptions{Width: 4, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	if w, err := e.Window("hud"); err != nil || w != hud {
		t.Errorf("Window(hud) = %v, %v", w, err)
	}
	if hud.Rasterizer() == nil {
		t.Error("window did not inherit the engine font")
	}

	if _, err := e.CreateWindow("hud", WindowOptions{}); !errors.Is(err, ErrWindowExists) {
		t.Errorf("duplicate err = %v, want ErrWindowExists", err)
	}
	if _, err := e.Window("nope"); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("missing err = %v, want ErrWindowNotFound", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustWindow did not panic")
			}
		}()
		e.MustWindow("nope")
	}()

	if err := e.RemoveWindow("root"); err == nil {
		t.Error("root window was removed")
	}
	if err := e.RemoveWindow("nope"); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("remove missing err = %v", err)
	}
	if err := e.RemoveWindow("hud"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Window("hud"); err == nil || len(e.Windows()) != 1 {
		t.Error("hud still registered after RemoveWindow")
	}
}

func TestStepOrder(t *testing.T) {
	e := newTestEngine(t)
	root := e.Root()

	var calls []string
	e.OnUpdate = func(float64) { calls = append(calls, "engine.update") }
	root.OnUpdate = func(float64) { calls = append(calls, "window.update") }
	root.OnDraw = func(*Window) { calls = append(calls, "window.draw") }
	e.OnDraw = func(*Engine) { calls = append(calls, "engine.draw") }

	if err := e.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	want := []string{"engine.update", "window.update", "window.draw", "engine.draw"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	if e.FrameCount() != 1 {
		t.Errorf("FrameCount = %d", e.FrameCount())
	}
}

func TestStepComposites(t *testing.T) {
	e := newTestEngine(t)
	red, err := e.CreateWindow("red", WindowOptions{
		X:          1,
		Width:      2,
		Height:     2,
		Rasterizer: blockRasterizer{w: 4, h: 4},
		Background: ColorRed,
	})
	if err != nil {
		t.Fatal(err)
	}

	e.Step(0)
	if got := e.Frame().At(8, 1); got != ColorRed {
		t.Errorf("window pixel = %v, want red", got)
	}
	if got := e.Frame().At(0, 0); got != ColorBlack {
		t.Errorf("root pixel = %v, want black", got)
	}

	e.Camera().Set(7, 0)
	e.Step(0)
	if got := e.Frame().At(1, 1); got != ColorRed {
		t.Errorf("camera-shifted pixel = %v, want red", got)
	}

	red.Fixed = true
	e.Step(0)
	if got := e.Frame().At(1, 1); got == ColorRed {
		t.Error("fixed window followed the camera")
	}
}

func TestStepAdvancesTweens(t *testing.T) {
	e := newTestEngine(t)
	l := e.Root().AddLight(NewLight(2, 2, 1))
	e.AddTween(TweenLightRadius(l, 5, 0.5, nil))

	e.Step(0.25)
	if !approxEqual(l.Radius, 3, 1e-4) {
		t.Errorf("radius halfway = %v, want 3", l.Radius)
	}
	e.Step(0.25)
	if l.Radius != 5 {
		t.Errorf("radius = %v, want 5", l.Radius)
	}
	if len(e.tweens) != 0 {
		t.Errorf("%d finished tweens still registered", len(e.tweens))
	}
}

func buildScene(t *testing.T, parallel bool) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 20, 10
	cfg.Parallel = parallel
	cfg.Windows = []WindowConfig{
		{
			Name:       "world",
			Width:      20,
			Height:     10,
			Background: "#000000",
			Bloom:      &BloomConfig{Enabled: true, Threshold: 100, BlurScale: 4, Intensity: 1},
			Lighting:   &LightingConfig{Enabled: true, Ambient: "#202020"},
		},
		{
			Name:       "hud",
			Width:      10,
			Height:     2,
			ZIndex:     1,
			Fixed:      true,
			Alpha:      200,
			Background: "#000040",
		},
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	world := e.MustWindow("world")
	world.AddLight(NewLight(5, 5, 6))
	wall := NewSpriteFromPattern("###", ColorWhite)
	wall.MoveTo(8, 4, true)
	wall.SetBlocksLight(true)
	world.AddSprite(wall)
	world.OnDraw = func(w *Window) {
		w.PutString(1, 1, "hello", ColorWhite, Color{})
		w.PutCell(3, 7, Cell{Rune: '*', Fg: ColorYellow, Glow: 1})
	}
	e.MustWindow("hud").OnDraw = func(w *Window) {
		w.PutString(0, 0, "HP 10", ColorGreen, Color{})
	}
	e.Camera().Set(5, 3)
	return e
}

func TestParallelMatchesSequential(t *testing.T) {
	seq := buildScene(t, false)
	par := buildScene(t, true)
	for range 2 {
		if err := seq.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
		if err := par.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(seq.Frame().Image().Pix, par.Frame().Image().Pix) {
		t.Error("parallel frame differs from sequential frame")
	}
}

func TestConfiguredWindowsApplied(t *testing.T) {
	e := buildScene(t, false)
	world := e.MustWindow("world")
	if b := world.Bloom(); !b.Enabled || b.Threshold != 100 {
		t.Errorf("bloom = %+v", b)
	}
	if on, amb := world.Lighting(); !on || amb != RGB(0x20, 0x20, 0x20) {
		t.Errorf("lighting %v ambient %v", on, amb)
	}
	hud := e.MustWindow("hud")
	if !hud.Fixed || hud.Alpha != 200 || hud.ZIndex != 1 {
		t.Errorf("hud = fixed %v alpha %d z %d", hud.Fixed, hud.Alpha, hud.ZIndex)
	}
}

func TestStepMarksGridsClean(t *testing.T) {
	e := newTestEngine(t)
	root := e.Root()
	root.AutoClear = false
	if err := e.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if root.Grid().NeedsRedraw() {
		t.Fatalf("fresh grid still dirty after Step: %d cells", len(root.Grid().DirtyCells()))
	}

	root.Put(1, 1, '@', ColorYellow, Color{})
	if got := root.Grid().DirtyCells(); len(got) != 1 || got[0] != (Point{X: 1, Y: 1}) {
		t.Fatalf("DirtyCells before Step = %v, want [(1,1)]", got)
	}
	if err := e.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	c := root.Grid().Get(1, 1)
	if c.Dirty() || root.Grid().NeedsRedraw() {
		t.Error("cell (1,1) still dirty after Step")
	}
	if c.Rune != '@' {
		t.Errorf("cell (1,1) = %q, want @", c.Rune)
	}

	root.Grid().MarkAllDirty()
	if got := len(root.Grid().DirtyCells()); got != 50 {
		t.Errorf("DirtyCells after MarkAllDirty = %d, want 50", got)
	}
	if err := e.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}
	if root.Grid().NeedsRedraw() {
		t.Error("MarkAllDirty survived Step")
	}
}
