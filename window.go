package cellfx

import (
	"image"
	"log/slog"
	"math"
	"sync"

	applog "github.com/phanxgames/cellfx/internal/log"
)

var defaultRasterizer = sync.OnceValue(func() Rasterizer { return NewBasicRasterizer() })

// WindowOptions configures a new Window.
type WindowOptions struct {
	// X and Y place the window in root cells.
	X, Y int
	// Width and Height are the grid size in this window's cells.
	Width, Height int
	ZIndex        int
	// Rasterizer renders glyphs. Nil uses the shared 7x13 bitmap face.
	Rasterizer Rasterizer
	// Scale magnifies the rasterizer by an integer factor (0 or 1 = none).
	Scale int
	// Alpha is the composite opacity. Zero means fully opaque.
	Alpha uint8
	// Background fills the window on Clear. Zero alpha is transparent.
	Background Color
	// Depth is the parallax depth (>= 0). 0 moves 1:1 with the camera.
	Depth float64
	// Fixed windows ignore the camera entirely.
	Fixed bool
}

// Window is a named grid of character cells backed by a pixel surface. It
// owns its sprites, effect particles, emitters and lights, and runs the
// sprite, lighting and bloom passes on its own surface every frame.
type Window struct {
	name string

	// X and Y are the window position in root cells.
	X, Y   int
	ZIndex int
	// Alpha is the composite opacity (255 = opaque).
	Alpha uint8
	// Depth is the parallax depth; negative values are treated as zero.
	Depth float64
	// Fixed windows are composited at their cell position regardless of the
	// camera.
	Fixed   bool
	Visible bool
	// AutoClear refills the background at the start of every frame.
	AutoClear bool
	// Background is the fill color used by Clear.
	Background Color

	// OnUpdate is called first in Update with the frame delta.
	OnUpdate func(dt float64)
	// OnDraw is called after the auto clear, before sprites are drawn.
	OnDraw func(w *Window)

	raster       Rasterizer
	cellW, cellH int
	width        int
	height       int

	surface     *Surface
	emissive    *Surface
	hasEmissive bool
	grid        *Grid

	entities entityArena
	drawBuf  []Entity
	sortBuf  []Entity
	emitters []*Emitter
	lights   []*Light

	lighting bool
	ambient  Color
	lightMap *LightMap

	bloom BloomSettings
	pool  surfacePool

	log *slog.Logger
}

// NewWindow creates a window from opts. The surface is always
// Width*cellW x Height*cellH pixels.
func NewWindow(name string, opts WindowOptions) *Window {
	r := opts.Rasterizer
	if r == nil {
		r = defaultRasterizer()
	}
	r = NewScaledRasterizer(r, opts.Scale)
	cw, ch := r.CellSize()

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = 255
	}
	width, height := max(opts.Width, 0), max(opts.Height, 0)
	w := &Window{
		name:       name,
		X:          opts.X,
		Y:          opts.Y,
		ZIndex:     opts.ZIndex,
		Alpha:      alpha,
		Depth:      math.Max(opts.Depth, 0),
		Fixed:      opts.Fixed,
		Visible:    true,
		AutoClear:  true,
		Background: opts.Background,
		raster:     r,
		cellW:      cw,
		cellH:      ch,
		width:      width,
		height:     height,
		surface:    NewSurface(width*cw, height*ch),
		emissive:   NewSurface(width*cw, height*ch),
		grid:       NewGrid(width, height, opts.Background),
		entities:   newEntityArena(),
		ambient:    DefaultAmbient,
		bloom:      DefaultBloomSettings(),
		log:        applog.WithComponent("window").With(slog.String("window", name)),
	}
	w.Clear()
	return w
}

// Name returns the window name.
func (w *Window) Name() string { return w.name }

// Width returns the grid width in cells.
func (w *Window) Width() int { return w.width }

// Height returns the grid height in cells.
func (w *Window) Height() int { return w.height }

// CellSize returns the pixel size of one cell.
func (w *Window) CellSize() (int, int) { return w.cellW, w.cellH }

// Rasterizer returns the glyph source of the window.
func (w *Window) Rasterizer() Rasterizer { return w.raster }

// Surface returns the pixel surface. It holds the finished window image
// after the post pass of each frame.
func (w *Window) Surface() *Surface { return w.surface }

// Grid returns the cell mirror of everything drawn with Put, PutCell and
// PutString.
func (w *Window) Grid() *Grid { return w.grid }

// Clear fills the surface and grid with the background color.
func (w *Window) Clear() {
	if w.Background.IsSet() {
		w.surface.Fill(w.Background)
	} else {
		w.surface.Clear()
	}
	w.grid.Clear(w.Background)
}

// Put draws r at cell (x, y). A bg with zero alpha leaves the background
// untouched. Out-of-range cells are ignored.
func (w *Window) Put(x, y int, r rune, fg, bg Color) {
	w.PutCell(x, y, Cell{Rune: r, Fg: fg, Bg: bg})
}

// PutCell draws c at cell (x, y). Cells with Glow > 0 also feed the bloom
// pass in their glow color.
func (w *Window) PutCell(x, y int, c Cell) {
	if !w.grid.InBounds(x, y) {
		return
	}
	if !c.Fg.IsSet() {
		c.Fg = ColorWhite
	}
	c.Glow = clamp01(c.Glow)
	w.grid.PutCell(x, y, c)
	w.drawGlyph(x*w.cellW, y*w.cellH, c.Rune, c.Fg, c.Bg)
}

// PutString draws s starting at cell (x, y). Wide characters advance by
// two cells. Characters past the right edge are dropped. It returns the
// number of cells consumed.
func (w *Window) PutString(x, y int, s string, fg, bg Color) int {
	if !fg.IsSet() {
		fg = ColorWhite
	}
	cursor := x
	for _, r := range s {
		n := w.runeCells(r)
		if cursor >= 0 && cursor < w.width && y >= 0 && y < w.height {
			w.grid.Put(cursor, y, r, fg, bg)
			for i := 1; i < n; i++ {
				// Continuation cells of a wide rune hold rune 0.
				w.grid.Put(cursor+i, y, 0, fg, bg)
			}
			w.drawGlyph(cursor*w.cellW, y*w.cellH, r, fg, bg)
		}
		cursor += n
	}
	return cursor - x
}

// StringWidth returns how many cells s occupies in this window.
func (w *Window) StringWidth(s string) int {
	n := 0
	for _, r := range s {
		n += w.runeCells(r)
	}
	return n
}

func (w *Window) runeCells(r rune) int {
	_, adv := w.raster.Render(r, ColorWhite)
	return CellsForAdvance(adv, w.cellW)
}

// drawGlyph paints an opaque background (when set) sized to the glyph
// advance and blends the glyph on top.
func (w *Window) drawGlyph(px, py int, r rune, fg, bg Color) {
	glyph, adv := w.raster.Render(r, fg)
	if bg.IsSet() {
		w.surface.FillRect(image.Rect(px, py, px+adv, py+w.cellH), bg.Opaque())
	}
	w.surface.BlitAlpha(glyph, px, py, 255)
}

// PutAtPixel draws r into dst with its top-left corner at pixel (px, py),
// for sub-cell sprite placement. Positions are floored and glyphs crossing
// the edge are clipped. alpha scales both the glyph and the background.
func (w *Window) PutAtPixel(dst *Surface, px, py float64, r rune, fg, bg Color, alpha uint8) {
	if alpha == 0 {
		return
	}
	x, y := int(math.Floor(px)), int(math.Floor(py))
	glyph, adv := w.raster.Render(r, fg)
	if bg.IsSet() {
		c := bg
		c.A = uint8(int(bg.A) * int(alpha) / 255)
		dst.FillRect(image.Rect(x, y, x+max(adv, w.cellW), y+w.cellH), c)
	}
	dst.BlitAlpha(glyph, x, y, alpha)
}

// --- Entities ---

// AddSprite adds s to the window and returns its ID.
func (w *Window) AddSprite(s *Sprite) EntityID { return w.entities.add(s) }

// AddEffect adds an effect sprite and returns its ID. It is dropped
// automatically once it dies.
func (w *Window) AddEffect(e *EffectSprite) EntityID { return w.entities.add(e) }

// AddEntity adds any entity and returns its ID.
func (w *Window) AddEntity(e Entity) EntityID { return w.entities.add(e) }

// RemoveEntity drops the entity with the given ID. It reports whether the
// entity was present.
func (w *Window) RemoveEntity(id EntityID) bool { return w.entities.remove(id) }

// Entity resolves an ID.
func (w *Window) Entity(id EntityID) (Entity, bool) { return w.entities.get(id) }

// Sprite resolves an ID to a Sprite.
func (w *Window) Sprite(id EntityID) (*Sprite, bool) {
	e, ok := w.entities.get(id)
	if !ok {
		return nil, false
	}
	s, ok := e.(*Sprite)
	return s, ok
}

// Entities returns the entities in insertion order. The returned slice
// MUST NOT be mutated.
func (w *Window) Entities() []Entity { return w.entities.order }

// EntityCount returns the number of entities the window owns.
func (w *Window) EntityCount() int { return w.entities.len() }

// --- Emitters ---

// AddEmitter attaches e and returns it.
func (w *Window) AddEmitter(e *Emitter) *Emitter {
	e.window = w
	w.emitters = append(w.emitters, e)
	return e
}

// RemoveEmitter detaches e. Particles it already spawned stay alive.
func (w *Window) RemoveEmitter(e *Emitter) bool {
	for i, x := range w.emitters {
		if x == e {
			w.emitters = append(w.emitters[:i], w.emitters[i+1:]...)
			e.window = nil
			return true
		}
	}
	return false
}

// Burst spawns a one-off group of up to n particles at cell (x, y) using
// cfg, without attaching an emitter. cfg.MaxParticles is ignored.
func (w *Window) Burst(x, y float64, cfg EmitterConfig, n int) int {
	cfg.MaxParticles = n
	e := NewEmitter(x, y, cfg)
	e.window = w
	return e.Burst(n)
}

// Emitters returns the attached emitters. The returned slice MUST NOT be
// mutated.
func (w *Window) Emitters() []*Emitter { return w.emitters }

// --- Lights ---

// AddLight attaches l and turns lighting on.
func (w *Window) AddLight(l *Light) *Light {
	w.lights = append(w.lights, l)
	w.lighting = true
	return l
}

// RemoveLight detaches l. Lighting stays enabled.
func (w *Window) RemoveLight(l *Light) bool {
	for i, x := range w.lights {
		if x == l {
			w.lights = append(w.lights[:i], w.lights[i+1:]...)
			return true
		}
	}
	return false
}

// ClearLights detaches every light.
func (w *Window) ClearLights() {
	clear(w.lights)
	w.lights = w.lights[:0]
}

// Lights returns the attached lights. The returned slice MUST NOT be
// mutated.
func (w *Window) Lights() []*Light { return w.lights }

// SetLighting enables or disables the lighting pass. An unset ambient keeps
// the current one.
func (w *Window) SetLighting(enabled bool, ambient Color) {
	w.lighting = enabled
	if ambient.IsSet() {
		w.ambient = ambient.Opaque()
	}
}

// Lighting reports whether lighting is on and the ambient level.
func (w *Window) Lighting() (bool, Color) { return w.lighting, w.ambient }

// LightMap returns the light map computed in the last frame, or nil when
// lighting has not run yet.
func (w *Window) LightMap() *LightMap { return w.lightMap }

// --- Bloom ---

// SetBloom configures the bloom pass. Threshold is clamped to 0..255,
// blurScale to >= 1 and intensity to >= 0.
func (w *Window) SetBloom(enabled bool, threshold, blurScale int, intensity float64) {
	w.SetBloomSettings(BloomSettings{
		Enabled:   enabled,
		Threshold: threshold,
		BlurScale: blurScale,
		Intensity: intensity,
	})
}

// SetBloomSettings replaces the bloom settings, clamped.
func (w *Window) SetBloomSettings(b BloomSettings) { w.bloom = b.clamped() }

// Bloom returns the current bloom settings.
func (w *Window) Bloom() BloomSettings { return w.bloom }

// --- Frame ---

// Update runs the OnUpdate hook, ticks emitters (which may spawn
// particles), updates every entity and then drops dead emitters and
// entities in one pass each.
func (w *Window) Update(dt float64) {
	if w.OnUpdate != nil {
		w.OnUpdate(dt)
	}

	for _, e := range w.emitters {
		e.update(dt, w)
	}
	n := 0
	for _, e := range w.emitters {
		if e.Alive() {
			w.emitters[n] = e
			n++
		}
	}
	clear(w.emitters[n:])
	w.emitters = w.emitters[:n]

	for _, e := range w.entities.order {
		e.Update(dt, w.cellW, w.cellH)
	}
	w.entities.compact()
}

// beginFrame clears the window when AutoClear is set and runs OnDraw.
func (w *Window) beginFrame() {
	if w.AutoClear {
		w.Clear()
	}
	if w.OnDraw != nil {
		w.OnDraw(w)
	}
}

// sortedEntities returns the visible entities in stable ascending z order.
func (w *Window) sortedEntities() []Entity {
	w.drawBuf = w.drawBuf[:0]
	for _, e := range w.entities.order {
		if e.Visible() {
			w.drawBuf = append(w.drawBuf, e)
		}
	}
	w.sortBuf = mergeSort(w.drawBuf, w.sortBuf, func(a, b Entity) bool {
		return a.ZIndex() <= b.ZIndex()
	})
	return w.drawBuf
}

// DrawSprites draws every visible entity onto the surface in z order. With
// bloom enabled, emissive entities and glowing cells are also drawn into
// the emissive layer.
func (w *Window) DrawSprites() {
	sorted := w.sortedEntities()
	for _, e := range sorted {
		e.Draw(w, w.surface)
	}

	w.hasEmissive = false
	if !w.bloom.Enabled {
		return
	}
	w.emissive.Clear()
	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			c := w.grid.Get(x, y)
			if c.Glow <= 0 || c.Rune == 0 || c.Rune == ' ' {
				continue
			}
			fg := MultiplyColor(c.EffectiveGlowColor(), c.Glow)
			glyph, _ := w.raster.Render(c.Rune, fg)
			w.emissive.BlitAlpha(glyph, x*w.cellW, y*w.cellH, 255)
			w.hasEmissive = true
		}
	}
	for _, e := range sorted {
		if e.Emissive() {
			e.Draw(w, w.emissive)
			w.hasEmissive = true
		}
	}
}

// resolveLights moves following lights onto their entities. A light whose
// entity is gone stays at the last known position.
func (w *Window) resolveLights() {
	for _, l := range w.lights {
		if l.follow == 0 {
			continue
		}
		if e, ok := w.entities.get(l.follow); ok {
			l.X, l.Y = e.CellPosition()
		}
	}
}

// applyLighting recomputes the light map and multiplies it into the
// surface. Pixel access failures skip the pass.
func (w *Window) applyLighting() {
	if !w.lighting {
		return
	}
	w.resolveLights()
	if w.lightMap == nil {
		w.lightMap = &LightMap{}
	}
	computeLightMap(w.lightMap, w.width, w.height, w.ambient, w.lights, w.entities.order)
	if err := applyLightMap(w.surface, w.lightMap, w.cellW, w.cellH); err != nil {
		w.log.Debug("lighting skipped", slog.Any("err", err))
	}
}

// applyBloom runs the bloom pass. Surfaces below 4x4 are skipped.
func (w *Window) applyBloom() {
	if !w.bloom.Enabled {
		return
	}
	if w.surface.Width() < minBloomSize || w.surface.Height() < minBloomSize {
		w.log.Debug("bloom skipped", slog.Int("w", w.surface.Width()), slog.Int("h", w.surface.Height()))
		return
	}
	var emissive *Surface
	if w.hasEmissive {
		emissive = w.emissive
	}
	applyBloom(&w.pool, w.surface, w.bloom, emissive)
}

// postProcess runs sprites, lighting and bloom on this window's surface.
// It touches only state the window owns, so windows may run it in
// parallel.
func (w *Window) postProcess() {
	w.DrawSprites()
	w.applyLighting()
	w.applyBloom()
}
