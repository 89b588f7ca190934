package cellfx

import "math"

// Compositor blits windows onto a frame in ascending z order. Equal z
// values keep their input order.
type Compositor struct {
	order   []*Window
	sortBuf []*Window
}

// Composite clears frame and draws every visible window onto it.
// rootCellW and rootCellH convert window cell positions to pixels. Fixed
// windows ignore the camera; the rest are shifted by the camera offset at
// their depth.
func (c *Compositor) Composite(frame *Surface, windows []*Window, cam *Camera, rootCellW, rootCellH int) {
	frame.Clear()
	for _, w := range c.sorted(windows) {
		if !w.Visible {
			continue
		}
		x, y := windowOrigin(w, cam, rootCellW, rootCellH)
		frame.BlitAlpha(w.surface, x, y, w.Alpha)
	}
}

// sorted returns windows in stable ascending z order without touching the
// caller's slice.
func (c *Compositor) sorted(windows []*Window) []*Window {
	c.order = append(c.order[:0], windows...)
	c.sortBuf = mergeSort(c.order, c.sortBuf, func(a, b *Window) bool {
		return a.ZIndex <= b.ZIndex
	})
	return c.order
}

// windowOrigin returns the frame pixel position of w's top-left corner.
func windowOrigin(w *Window, cam *Camera, rootCellW, rootCellH int) (int, int) {
	px := float64(w.X * rootCellW)
	py := float64(w.Y * rootCellH)
	if w.Fixed || cam == nil {
		return int(px), int(py)
	}
	ox, oy := cam.Offset(w.Depth)
	return int(math.Round(px - ox)), int(math.Round(py - oy))
}
