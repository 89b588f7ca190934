package cellfx

import "math"

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// blockRasterizer renders every visible rune as a solid block filling its
// cells, so pixel assertions are exact.
type blockRasterizer struct {
	w, h int
}

func (b blockRasterizer) CellSize() (int, int) { return b.w, b.h }

func (b blockRasterizer) Render(r rune, fg Color) (*Surface, int) {
	adv := RuneCells(r) * b.w
	s := NewSurface(adv, b.h)
	if r != ' ' && r != 0 {
		s.Fill(fg.Opaque())
	}
	return s, adv
}

// newTestWindow returns a w x h window with 4x4 pixel cells and a black
// background.
func newTestWindow(w, h int) *Window {
	return NewWindow("test", WindowOptions{
		Width:      w,
		Height:     h,
		Rasterizer: blockRasterizer{w: 4, h: 4},
		Background: ColorBlack,
	})
}
