package cellfx

import "testing"

func solidWindow(name string, x, y int, c Color) *Window {
	return NewWindow(name, WindowOptions{
		X:          x,
		Y:          y,
		Width:      2,
		Height:     2,
		Rasterizer: blockRasterizer{w: 4, h: 4},
		Background: c,
	})
}

func TestCompositeZOrder(t *testing.T) {
	red := solidWindow("red", 0, 0, ColorRed)
	blue := solidWindow("blue", 1, 0, ColorBlue)
	frame := NewSurface(16, 8)
	var comp Compositor

	blue.ZIndex = 1
	comp.Composite(frame, []*Window{blue, red}, nil, 4, 4)
	if got := frame.At(5, 1); got != ColorBlue {
		t.Errorf("overlap = %v, want blue on top", got)
	}
	if got := frame.At(1, 1); got != ColorRed {
		t.Errorf("red-only pixel = %v", got)
	}
	if got := frame.At(14, 1); got != Transparent {
		t.Errorf("uncovered pixel = %v, want transparent", got)
	}

	blue.ZIndex = -1
	comp.Composite(frame, []*Window{blue, red}, nil, 4, 4)
	if got := frame.At(5, 1); got != ColorRed {
		t.Errorf("overlap = %v, want red on top", got)
	}

	// Equal z keeps input order: later windows draw on top.
	blue.ZIndex = 0
	comp.Composite(frame, []*Window{red, blue}, nil, 4, 4)
	if got := frame.At(5, 1); got != ColorBlue {
		t.Errorf("equal z overlap = %v, want blue", got)
	}
}

func TestCompositeCameraDepthAndFixed(t *testing.T) {
	far := solidWindow("far", 2, 0, ColorGreen)
	far.Depth = 1
	hud := solidWindow("hud", 2, 0, ColorRed)
	hud.Fixed = true

	cam := NewCamera()
	cam.Set(8, 0)

	if x, y := windowOrigin(far, cam, 4, 4); x != 4 || y != 0 {
		t.Errorf("far origin = (%d,%d), want (4,0)", x, y)
	}
	if x, y := windowOrigin(hud, cam, 4, 4); x != 8 || y != 0 {
		t.Errorf("fixed origin = (%d,%d), want (8,0)", x, y)
	}

	near := solidWindow("near", 2, 0, ColorBlue)
	if x, _ := windowOrigin(near, cam, 4, 4); x != 0 {
		t.Errorf("depth 0 origin x = %d, want 0", x)
	}
	cam.Mode = CameraOrthographic
	if x, _ := windowOrigin(far, cam, 4, 4); x != 0 {
		t.Errorf("orthographic origin x = %d, want 0", x)
	}

	// Sub-pixel offsets round.
	cam.Mode = CameraPerspective
	cam.Set(3, 0)
	if x, _ := windowOrigin(far, cam, 4, 4); x != 7 {
		t.Errorf("rounded origin x = %d, want 7", x)
	}
}

func TestCompositeAlphaAndVisibility(t *testing.T) {
	bottom := solidWindow("bottom", 0, 0, ColorBlack)
	top := solidWindow("top", 0, 0, ColorWhite)
	top.ZIndex = 1
	top.Alpha = 128
	frame := NewSurface(8, 8)
	var comp Compositor

	comp.Composite(frame, []*Window{top, bottom}, NewCamera(), 4, 4)
	if got := frame.At(3, 3); got != RGB(128, 128, 128) {
		t.Errorf("half alpha = %v, want (128,128,128)", got)
	}

	top.Visible = false
	comp.Composite(frame, []*Window{top, bottom}, NewCamera(), 4, 4)
	if got := frame.At(3, 3); got != ColorBlack {
		t.Errorf("hidden window drawn: %v", got)
	}

	bottom.Visible = false
	comp.Composite(frame, []*Window{top, bottom}, NewCamera(), 4, 4)
	if got := frame.At(3, 3); got != Transparent {
		t.Errorf("frame not cleared: %v", got)
	}
}

func TestCompositeLeavesCallerOrder(t *testing.T) {
	a := solidWindow("a", 0, 0, ColorRed)
	b := solidWindow("b", 0, 0, ColorBlue)
	a.ZIndex = 5
	in := []*Window{a, b}
	var comp Compositor
	comp.Composite(NewSurface(8, 8), in, nil, 4, 4)
	if in[0] != a || in[1] != b {
		t.Error("Composite reordered the caller's slice")
	}
}
