package cellfx

import (
	"math"
)

// DefaultAmbient is the light level of unlit cells.
var DefaultAmbient = RGB(30, 30, 40)

// Light is a point light in a window's cell space.
type Light struct {
	// X and Y are the light position in cells.
	X, Y float64
	// Radius is the reach in cells. Lights with Radius <= 0 are skipped.
	Radius float64
	// Color tints lit cells.
	Color Color
	// Intensity scales the contribution (0 to 1, or more to overdrive).
	Intensity float64
	// Falloff is the distance exponent: 1 linear, 2 quadratic.
	Falloff float64
	// CastsShadows enables occlusion by light-blocking entities.
	CastsShadows bool
	// Enabled determines whether the light contributes. Disabled lights are
	// skipped entirely.
	Enabled bool

	follow EntityID
}

// NewLight returns an enabled, shadow-casting white light with linear
// falloff.
func NewLight(x, y, radius float64) *Light {
	return &Light{
		X:            x,
		Y:            y,
		Radius:       radius,
		Color:        ColorWhite,
		Intensity:    1,
		Falloff:      1,
		CastsShadows: true,
		Enabled:      true,
	}
}

// MoveTo moves the light.
func (l *Light) MoveTo(x, y float64) {
	l.X, l.Y = x, y
}

// Follow makes the light track the entity with the given ID in the window
// the light belongs to. The position is refreshed every frame; when the
// entity is gone the light stays where it was last seen.
func (l *Light) Follow(id EntityID) {
	l.follow = id
}

// Unfollow stops tracking.
func (l *Light) Unfollow() {
	l.follow = 0
}

// Following returns the followed entity ID, or 0.
func (l *Light) Following() EntityID {
	return l.follow
}

// LightMap holds one accumulated RGB light level per cell.
type LightMap struct {
	width, height int
	levels        []int // 3 per cell, unclamped during accumulation
}

// newLightMap returns a map filled with ambient.
func newLightMap(width, height int, ambient Color) *LightMap {
	lm := &LightMap{}
	lm.reset(width, height, ambient)
	return lm
}

// reset resizes the map if needed and fills it with ambient.
func (lm *LightMap) reset(width, height int, ambient Color) {
	n := max(width, 0) * max(height, 0) * 3
	if cap(lm.levels) < n {
		lm.levels = make([]int, n)
	}
	lm.levels = lm.levels[:n]
	lm.width, lm.height = width, height
	for i := 0; i < n; i += 3 {
		lm.levels[i] = int(ambient.R)
		lm.levels[i+1] = int(ambient.G)
		lm.levels[i+2] = int(ambient.B)
	}
}

// Width returns the map width in cells.
func (lm *LightMap) Width() int { return lm.width }

// Height returns the map height in cells.
func (lm *LightMap) Height() int { return lm.height }

// At returns the light level at (x, y). Out-of-range cells are black.
func (lm *LightMap) At(x, y int) Color {
	if lm == nil || x < 0 || y < 0 || x >= lm.width || y >= lm.height {
		return Color{}
	}
	i := (y*lm.width + x) * 3
	return RGB(clampByte(lm.levels[i]), clampByte(lm.levels[i+1]), clampByte(lm.levels[i+2]))
}

// add accumulates rgb at (x, y).
func (lm *LightMap) add(x, y, r, g, b int) {
	i := (y*lm.width + x) * 3
	lm.levels[i] += r
	lm.levels[i+1] += g
	lm.levels[i+2] += b
}

// clamp limits every channel to 255.
func (lm *LightMap) clamp() {
	for i, v := range lm.levels {
		if v > 255 {
			lm.levels[i] = 255
		}
	}
}

// blockingCells collects the cells covered by light-blocking entities.
func blockingCells(entities []Entity) CellSet {
	blocking := CellSet{}
	for _, e := range entities {
		if e.BlocksLight() {
			e.Cells(blocking.add)
		}
	}
	return blocking
}

// discCells returns the cells around origin within radius, ignoring
// occlusion.
func discCells(origin Point, radius float64) CellSet {
	cells := CellSet{}
	r := int(radius) + 1
	r2 := radius * radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) <= r2 {
				cells.add(origin.X+dx, origin.Y+dy)
			}
		}
	}
	return cells
}

// accumulateLight adds one light's contribution to lm.
func accumulateLight(lm *LightMap, l *Light, blocking CellSet) {
	origin := Point{X: int(l.X), Y: int(l.Y)}
	var visible CellSet
	if l.CastsShadows {
		visible = ComputeVisibleCells(origin, l.Radius, func(x, y int) bool {
			return blocking.Contains(x, y)
		})
	} else {
		visible = discCells(origin, l.Radius)
	}
	for p := range visible {
		if p.X < 0 || p.Y < 0 || p.X >= lm.width || p.Y >= lm.height {
			continue
		}
		dist := math.Hypot(float64(p.X)-l.X, float64(p.Y)-l.Y)
		if dist >= l.Radius {
			continue
		}
		atten := 1 - math.Pow(dist/l.Radius, l.Falloff)
		k := atten * l.Intensity
		lm.add(p.X, p.Y,
			int(float64(l.Color.R)*k),
			int(float64(l.Color.G)*k),
			int(float64(l.Color.B)*k),
		)
	}
}

// computeLightMap rebuilds lm from ambient, lights and blockers.
func computeLightMap(lm *LightMap, width, height int, ambient Color, lights []*Light, entities []Entity) {
	lm.reset(width, height, ambient)
	if len(lights) == 0 {
		return
	}
	blocking := blockingCells(entities)
	for _, l := range lights {
		if !l.Enabled || l.Radius <= 0 {
			continue
		}
		accumulateLight(lm, l, blocking)
	}
	lm.clamp()
}

// applyLightMap multiplies every pixel of s by the light level of its cell
// divided by 255. Alpha is untouched.
func applyLightMap(s *Surface, lm *LightMap, cellW, cellH int) error {
	pix, stride, err := s.pixels()
	if err != nil {
		return err
	}
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	w, h := s.Width(), s.Height()
	for y := 0; y < h; y++ {
		cy := y / cellH
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			c := lm.At(x/cellW, cy)
			i := x * 4
			row[i] = uint8(int(row[i]) * int(c.R) / 255)
			row[i+1] = uint8(int(row[i+1]) * int(c.G) / 255)
			row[i+2] = uint8(int(row[i+2]) * int(c.B) / 255)
		}
	}
	return nil
}
