package cellfx

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the desktop host.
type RunConfig struct {
	// Title is the window title.
	Title string
	// Scale multiplies the OS window size. The frame is scaled to fit.
	Scale int
	// TPS is the tick rate. Zero keeps Ebitengine's default (60).
	TPS int
	// OnKey is called for every key pressed since the last tick, before the
	// engine steps. Returning an error stops the loop; return
	// ebiten.Termination for a clean exit.
	OnKey func(e *Engine, key ebiten.Key) error
}

// game adapts an Engine to ebiten.Game.
type game struct {
	e    *Engine
	cfg  RunConfig
	img  *ebiten.Image
	pix  []byte
	keys []ebiten.Key
}

// Run opens a desktop window and drives e until the window is closed or a
// callback returns an error. ebiten.Termination ends the loop without an
// error.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	fw, fh := e.frame.Width(), e.frame.Height()
	ebiten.SetWindowSize(fw*cfg.Scale, fh*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)

	g := &game{e: e, cfg: cfg, pix: make([]byte, 4*fw*fh)}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update dispatches key presses, then steps the engine by one tick.
func (g *game) Update() error {
	if g.cfg.OnKey != nil {
		g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
		for _, k := range g.keys {
			if err := g.cfg.OnKey(g.e, k); err != nil {
				return err
			}
		}
	}
	dt := 1.0 / float64(ebiten.TPS())
	if err := g.e.Step(dt); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// Draw uploads the composited frame.
func (g *game) Draw(screen *ebiten.Image) {
	f := g.e.frame
	if g.img == nil {
		g.img = ebiten.NewImage(f.Width(), f.Height())
	}
	f.WritePremultiplied(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

// Layout keeps the logical screen at the frame size.
func (g *game) Layout(_, _ int) (int, int) {
	return g.e.frame.Width(), g.e.frame.Height()
}
