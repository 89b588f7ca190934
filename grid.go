package cellfx

// Cell is one character cell. A Bg with zero alpha is transparent and a
// GlowColor with zero alpha falls back to Fg.
type Cell struct {
	Rune      rune
	Fg        Color
	Bg        Color
	Glow      float64 // 0 (none) to 1 (maximum)
	GlowColor Color
	dirty     bool
}

// blankCell is an empty cell with a white foreground.
func blankCell(bg Color) Cell {
	return Cell{Rune: ' ', Fg: ColorWhite, Bg: bg, dirty: true}
}

// Set updates the cell and reports whether anything changed. Changed cells
// are marked dirty.
func (c *Cell) Set(r rune, fg, bg Color, glow float64, glowColor Color) bool {
	if c.Rune == r && c.Fg == fg && c.Bg == bg && c.Glow == glow && c.GlowColor == glowColor {
		return false
	}
	c.Rune, c.Fg, c.Bg, c.Glow, c.GlowColor = r, fg, bg, glow, glowColor
	c.dirty = true
	return true
}

// Dirty reports whether the cell changed since the last MarkClean.
func (c *Cell) Dirty() bool {
	return c.dirty
}

// Clear resets the cell to a blank space.
func (c *Cell) Clear(bg Color) {
	c.Set(' ', ColorWhite, bg, 0, Transparent)
}

// EffectiveGlowColor returns GlowColor when set, otherwise Fg.
func (c *Cell) EffectiveGlowColor() Color {
	if c.GlowColor.IsSet() {
		return c.GlowColor
	}
	return c.Fg
}

// Grid is a 2D buffer of cells with dirty tracking.
type Grid struct {
	width, height int
	defaultBg     Color
	cells         []Cell
	dirty         map[Point]struct{}
	fullRedraw    bool
}

// NewGrid creates a width x height grid of blank cells.
func NewGrid(width, height int, defaultBg Color) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	g := &Grid{
		width:      width,
		height:     height,
		defaultBg:  defaultBg,
		cells:      make([]Cell, width*height),
		dirty:      make(map[Point]struct{}),
		fullRedraw: true,
	}
	for i := range g.cells {
		g.cells[i] = blankCell(defaultBg)
	}
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a valid cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the cell at (x, y), or nil when out of bounds.
func (g *Grid) Get(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.width+x]
}

// Put sets a cell and reports whether it was modified.
func (g *Grid) Put(x, y int, r rune, fg, bg Color) bool {
	return g.PutCell(x, y, Cell{Rune: r, Fg: fg, Bg: bg})
}

// PutCell copies c into (x, y) and reports whether it was modified.
func (g *Grid) PutCell(x, y int, c Cell) bool {
	cell := g.Get(x, y)
	if cell == nil {
		return false
	}
	if cell.Set(c.Rune, c.Fg, c.Bg, c.Glow, c.GlowColor) {
		g.dirty[Point{X: x, Y: y}] = struct{}{}
		return true
	}
	return false
}

// PutString writes s starting at (x, y), stopping at the right edge. It
// returns the number of characters written.
func (g *Grid) PutString(x, y int, s string, fg, bg Color) int {
	written := 0
	i := 0
	for _, r := range s {
		if !g.InBounds(x+i, y) {
			break
		}
		if g.Put(x+i, y, r, fg, bg) {
			written++
		}
		i++
	}
	return written
}

// Fill writes r into every cell of the rectangle.
func (g *Grid) Fill(x, y, width, height int, r rune, fg, bg Color) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			g.Put(x+dx, y+dy, r, fg, bg)
		}
	}
}

// Clear blanks every cell using bg, or the default background when bg is
// unset.
func (g *Grid) Clear(bg Color) {
	if !bg.IsSet() {
		bg = g.defaultBg
	}
	for i := range g.cells {
		g.cells[i].Clear(bg)
	}
	g.fullRedraw = true
}

// DirtyCells returns the cells needing a redraw. After Clear or
// MarkAllDirty every cell is returned.
func (g *Grid) DirtyCells() []Point {
	if g.fullRedraw {
		pts := make([]Point, 0, len(g.cells))
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				pts = append(pts, Point{X: x, Y: y})
			}
		}
		return pts
	}
	pts := make([]Point, 0, len(g.dirty))
	for p := range g.dirty {
		pts = append(pts, p)
	}
	return pts
}

// MarkClean clears all dirty state.
func (g *Grid) MarkClean() {
	clear(g.dirty)
	g.fullRedraw = false
	for i := range g.cells {
		g.cells[i].dirty = false
	}
}

// MarkAllDirty forces a full redraw.
func (g *Grid) MarkAllDirty() {
	g.fullRedraw = true
}

// NeedsRedraw reports whether any cell is dirty.
func (g *Grid) NeedsRedraw() bool {
	return g.fullRedraw || len(g.dirty) > 0
}
