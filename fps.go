package cellfx

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// NewFPSWindow adds a fixed overlay window in the top-left corner showing
// the actual FPS and TPS, refreshed about every 0.5 seconds.
func (e *Engine) NewFPSWindow(name string) (*Window, error) {
	w, err := e.CreateWindow(name, WindowOptions{
		Width:      10,
		Height:     2,
		ZIndex:     1 << 20, // on top
		Background: RGB(0, 0, 0),
		Alpha:      192,
		Fixed:      true,
	})
	if err != nil {
		return nil, err
	}

	lines := [2]string{"FPS: --", "TPS: --"}
	var sinceUpdate float64
	w.OnUpdate = func(dt float64) {
		sinceUpdate += dt
		if sinceUpdate < 0.5 {
			return
		}
		sinceUpdate = 0
		lines[0] = fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS())
		lines[1] = fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS())
	}
	w.OnDraw = func(w *Window) {
		w.PutString(0, 0, lines[0], ColorYellow, Color{})
		w.PutString(0, 1, lines[1], ColorYellow, Color{})
	}
	return w, nil
}
