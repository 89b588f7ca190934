package cellfx

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Rasterizer turns single characters into glyph surfaces. Glyph surfaces are
// transparent outside the inked pixels; backgrounds are the caller's job.
type Rasterizer interface {
	// CellSize returns the pixel size of one grid cell.
	CellSize() (w, h int)
	// Render returns the glyph for r drawn in fg and its advance in pixels.
	// Wide characters advance by a whole number of cells.
	Render(r rune, fg Color) (*Surface, int)
}

// CellsForAdvance converts a pixel advance into the number of cells it
// occupies (at least one).
func CellsForAdvance(advance, cellW int) int {
	if cellW <= 0 {
		return 1
	}
	n := int(math.Round(float64(advance) / float64(cellW)))
	if n < 1 {
		return 1
	}
	return n
}

// RuneCells returns how many terminal-style cells r occupies: 2 for East
// Asian wide characters, otherwise 1.
func RuneCells(r rune) int {
	if w := runewidth.RuneWidth(r); w > 1 {
		return w
	}
	return 1
}

// StringCells returns the number of cells s occupies.
func StringCells(s string) int {
	n := 0
	for _, r := range s {
		n += RuneCells(r)
	}
	return n
}

type glyphKey struct {
	r  rune
	fg Color
}

type glyphEntry struct {
	surf    *Surface
	advance int
}

// FaceRasterizer renders glyphs from a font.Face and caches them by
// (rune, color). Safe for concurrent use.
type FaceRasterizer struct {
	mu     sync.Mutex
	face   font.Face
	cellW  int
	cellH  int
	ascent int
	cache  map[glyphKey]glyphEntry
}

// NewFaceRasterizer wraps face. The cell width is the advance of 'M' and the
// cell height is the face's line height.
func NewFaceRasterizer(face font.Face) *FaceRasterizer {
	m := face.Metrics()
	cellW := 0
	if adv, ok := face.GlyphAdvance('M'); ok {
		cellW = adv.Round()
	}
	if cellW <= 0 {
		cellW = m.Height.Ceil() / 2
	}
	cellH := m.Height.Ceil()
	if cellH <= 0 {
		cellH = (m.Ascent + m.Descent).Ceil()
	}
	return &FaceRasterizer{
		face:   face,
		cellW:  max(cellW, 1),
		cellH:  max(cellH, 1),
		ascent: m.Ascent.Round(),
		cache:  make(map[glyphKey]glyphEntry),
	}
}

// NewBasicRasterizer uses the 7x13 bitmap face from x/image.
func NewBasicRasterizer() *FaceRasterizer {
	return NewFaceRasterizer(basicfont.Face7x13)
}

// NewMonoRasterizer uses Go Mono at the given point size (72 DPI).
func NewMonoRasterizer(size float64) (*FaceRasterizer, error) {
	if size <= 0 {
		size = 14
	}
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse gomono: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("gomono face: %w", err)
	}
	return NewFaceRasterizer(face), nil
}

// CellSize returns the pixel size of one cell.
func (fr *FaceRasterizer) CellSize() (int, int) {
	return fr.cellW, fr.cellH
}

// Render returns the cached glyph for r in fg, rendering it on first use.
func (fr *FaceRasterizer) Render(r rune, fg Color) (*Surface, int) {
	key := glyphKey{r: r, fg: fg.Opaque()}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	if e, ok := fr.cache[key]; ok {
		return e.surf, e.advance
	}

	width := RuneCells(r) * fr.cellW
	inkAdv := 0
	if adv, ok := fr.face.GlyphAdvance(r); ok {
		inkAdv = adv.Round()
		if inkAdv > width {
			width = CellsForAdvance(inkAdv, fr.cellW) * fr.cellW
		}
	}

	surf := NewSurface(width, fr.cellH)
	if r != ' ' {
		x0 := 0
		if inkAdv > 0 && inkAdv < width {
			x0 = (width - inkAdv) / 2
		}
		d := font.Drawer{
			Dst:  surf.img,
			Src:  image.NewUniform(color.NRGBA{R: fg.R, G: fg.G, B: fg.B, A: 255}),
			Face: fr.face,
			Dot:  fixed.P(x0, fr.ascent),
		}
		d.DrawString(string(r))
	}

	fr.cache[key] = glyphEntry{surf: surf, advance: width}
	return surf, width
}

// CacheSize returns the number of cached glyphs.
func (fr *FaceRasterizer) CacheSize() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.cache)
}

// ClearCache drops all cached glyphs.
func (fr *FaceRasterizer) ClearCache() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	clear(fr.cache)
}

// ScaledRasterizer magnifies another rasterizer by an integer factor with
// nearest-neighbour sampling so bitmap fonts stay crisp.
type ScaledRasterizer struct {
	mu    sync.Mutex
	base  Rasterizer
	scale int
	cache map[glyphKey]glyphEntry
}

// NewScaledRasterizer returns base unchanged for scale <= 1.
func NewScaledRasterizer(base Rasterizer, scale int) Rasterizer {
	if scale <= 1 {
		return base
	}
	return &ScaledRasterizer{base: base, scale: scale, cache: make(map[glyphKey]glyphEntry)}
}

// CellSize returns the magnified cell size.
func (sr *ScaledRasterizer) CellSize() (int, int) {
	w, h := sr.base.CellSize()
	return w * sr.scale, h * sr.scale
}

// Render returns the magnified glyph for r.
func (sr *ScaledRasterizer) Render(r rune, fg Color) (*Surface, int) {
	key := glyphKey{r: r, fg: fg.Opaque()}

	sr.mu.Lock()
	defer sr.mu.Unlock()

	if e, ok := sr.cache[key]; ok {
		return e.surf, e.advance
	}
	g, adv := sr.base.Render(r, fg)
	e := glyphEntry{
		surf:    g.Scale(g.Width()*sr.scale, g.Height()*sr.scale),
		advance: adv * sr.scale,
	}
	sr.cache[key] = e
	return e.surf, e.advance
}
