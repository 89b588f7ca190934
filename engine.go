package cellfx

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	applog "github.com/phanxgames/cellfx/internal/log"
)

// rootWindowName is the window every engine starts with. Its cell size
// defines root cell coordinates and its surface size the frame size.
const rootWindowName = "root"

// Engine owns the windows, the camera and the composited frame, and runs
// the per-frame pipeline in Step.
type Engine struct {
	windows []*Window // creation order
	byName  map[string]*Window

	camera     *Camera
	compositor Compositor
	frame      *Surface
	raster     Rasterizer
	scale      int

	rootCellW, rootCellH int

	// Parallel runs the per-window post pass concurrently.
	Parallel bool
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	// OnUpdate runs at the start of Step, before the camera and windows
	// update.
	OnUpdate func(dt float64)
	// OnDraw runs after every window has been cleared and had its own
	// OnDraw, before sprites are drawn.
	OnDraw func(e *Engine)

	tweens          []*TweenGroup
	screenshotQueue []string
	testRunner      *TestRunner

	frames uint64
	debug  bool
	log    *slog.Logger
}

// New builds an engine from cfg: the root window, the configured windows
// and the camera.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Log != (applog.Options{}) {
		applog.Init(cfg.Log.Merge(applog.FromEnv()))
	}

	r, err := cfg.rasterizer()
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	mode, _ := ParseCameraMode(cfg.Camera.Mode)
	e := &Engine{
		byName: make(map[string]*Window),
		camera: &Camera{
			X:          cfg.Camera.X,
			Y:          cfg.Camera.Y,
			Mode:       mode,
			DepthScale: cfg.Camera.DepthScale,
		},
		raster:        r,
		scale:         max(cfg.Scale, 1),
		Parallel:      cfg.Parallel,
		ScreenshotDir: cfg.ScreenshotDir,
		debug:         cfg.Debug,
		log:           applog.WithComponent("engine"),
	}

	bg, _ := ParseColor(cfg.Background)
	root, err := e.CreateWindow(rootWindowName, WindowOptions{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: bg,
	})
	if err != nil {
		return nil, err
	}
	e.rootCellW, e.rootCellH = root.CellSize()
	e.frame = NewSurface(root.surface.Width(), root.surface.Height())

	for _, wc := range cfg.Windows {
		w, err := e.CreateWindow(wc.Name, wc.options(r, e.scale))
		if err != nil {
			return nil, err
		}
		wc.apply(w)
	}

	e.log.Debug("engine ready",
		slog.Int("cols", cfg.Width), slog.Int("rows", cfg.Height),
		slog.Int("frame_w", e.frame.Width()), slog.Int("frame_h", e.frame.Height()),
		slog.Int("windows", len(e.windows)))
	return e, nil
}

// CreateWindow adds a named window. A nil rasterizer in opts uses the
// engine's font and a zero Scale the engine's scale.
func (e *Engine) CreateWindow(name string, opts WindowOptions) (*Window, error) {
	if _, ok := e.byName[name]; ok {
		return nil, fmt.Errorf("create window %q: %w", name, ErrWindowExists)
	}
	if opts.Rasterizer == nil {
		opts.Rasterizer = e.raster
	}
	if opts.Scale == 0 {
		opts.Scale = e.scale
	}
	w := NewWindow(name, opts)
	e.windows = append(e.windows, w)
	e.byName[name] = w
	return w, nil
}

// Window returns the named window or ErrWindowNotFound.
func (e *Engine) Window(name string) (*Window, error) {
	w, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("window %q: %w", name, ErrWindowNotFound)
	}
	return w, nil
}

// MustWindow is like Window but panics when the window does not exist.
func (e *Engine) MustWindow(name string) *Window {
	w, err := e.Window(name)
	if err != nil {
		panic(err)
	}
	return w
}

// RemoveWindow destroys the named window together with its sprites,
// emitters and lights. The root window cannot be removed.
func (e *Engine) RemoveWindow(name string) error {
	if name == rootWindowName {
		return fmt.Errorf("remove window %q: root window is permanent", name)
	}
	w, ok := e.byName[name]
	if !ok {
		return fmt.Errorf("remove window %q: %w", name, ErrWindowNotFound)
	}
	delete(e.byName, name)
	for i, x := range e.windows {
		if x == w {
			e.windows = append(e.windows[:i], e.windows[i+1:]...)
			break
		}
	}
	return nil
}

// Windows returns the windows in creation order. The returned slice MUST
// NOT be mutated.
func (e *Engine) Windows() []*Window { return e.windows }

// Root returns the root window.
func (e *Engine) Root() *Window { return e.byName[rootWindowName] }

// Camera returns the engine camera.
func (e *Engine) Camera() *Camera { return e.camera }

// Frame returns the composited frame of the last Step.
func (e *Engine) Frame() *Surface { return e.frame }

// RootCellSize returns the pixel size of a root cell.
func (e *Engine) RootCellSize() (int, int) { return e.rootCellW, e.rootCellH }

// FrameCount returns the number of completed Steps.
func (e *Engine) FrameCount() uint64 { return e.frames }

// AddTween registers g to be advanced every Step until it is done.
func (e *Engine) AddTween(g *TweenGroup) *TweenGroup {
	e.tweens = append(e.tweens, g)
	return g
}

// SetDebugMode enables per-frame timing stats, logged at debug level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Step advances the engine by dt seconds and composites a new frame:
// test script, OnUpdate, tweens, camera, window updates, clears and draw
// callbacks, the per-window sprite/lighting/bloom pass, compositing and
// screenshots.
func (e *Engine) Step(dt float64) error {
	var stats debugStats
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	if e.testRunner != nil {
		e.testRunner.step(e)
	}
	if e.OnUpdate != nil {
		e.OnUpdate(dt)
	}
	e.updateTweens(dt)
	e.camera.update(dt)
	for _, w := range e.windows {
		w.Update(dt)
	}

	if e.debug {
		stats.updateTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, w := range e.windows {
		w.beginFrame()
	}
	if e.OnDraw != nil {
		e.OnDraw(e)
	}

	if e.debug {
		stats.drawTime = time.Since(t0)
		t0 = time.Now()
	}

	if err := e.postProcess(); err != nil {
		return fmt.Errorf("step: %w", err)
	}

	if e.debug {
		stats.postTime = time.Since(t0)
		t0 = time.Now()
	}

	e.compositor.Composite(e.frame, e.windows, e.camera, e.rootCellW, e.rootCellH)
	for _, w := range e.windows {
		w.grid.MarkClean()
	}

	if e.debug {
		stats.compositeTime = time.Since(t0)
		stats.windowCount = len(e.windows)
		for _, w := range e.windows {
			stats.entityCount += w.EntityCount()
			stats.lightCount += len(w.lights)
		}
		e.debugLog(stats)
	}

	e.flushScreenshots()
	e.frames++
	return nil
}

// postProcess runs each window's post pass, one goroutine per window when
// Parallel is set. Windows own all the state the pass touches.
func (e *Engine) postProcess() error {
	if !e.Parallel || len(e.windows) < 2 {
		for _, w := range e.windows {
			w.postProcess()
		}
		return nil
	}
	var g errgroup.Group
	for _, w := range e.windows {
		g.Go(func() error {
			w.postProcess()
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) updateTweens(dt float64) {
	n := 0
	for _, g := range e.tweens {
		g.Update(float32(dt))
		if !g.Done {
			e.tweens[n] = g
			n++
		}
	}
	clear(e.tweens[n:])
	e.tweens = e.tweens[:n]
}
