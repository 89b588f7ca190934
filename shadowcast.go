package cellfx

// CellSet is a set of cell coordinates.
type CellSet map[Point]struct{}

// Contains reports whether (x, y) is in the set.
func (s CellSet) Contains(x, y int) bool {
	_, ok := s[Point{X: x, Y: y}]
	return ok
}

// add inserts (x, y).
func (s CellSet) add(x, y int) {
	s[Point{X: x, Y: y}] = struct{}{}
}

// octantTransforms maps a sweep pair (dx, dy) to a world offset for each
// octant: worldX = ox + dx*m[0] + dy*m[1], worldY = oy + dx*m[2] + dy*m[3].
var octantTransforms = [8][4]int{
	{1, 0, 0, 1},   // (ox+dx, oy+dy)
	{0, 1, 1, 0},   // (ox+dy, oy+dx)
	{0, 1, -1, 0},  // (ox+dy, oy-dx)
	{1, 0, 0, -1},  // (ox+dx, oy-dy)
	{-1, 0, 0, -1}, // (ox-dx, oy-dy)
	{0, -1, -1, 0}, // (ox-dy, oy-dx)
	{0, -1, 1, 0},  // (ox-dy, oy+dx)
	{-1, 0, 0, 1},  // (ox-dx, oy+dy)
}

// ComputeVisibleCells returns the cells visible from origin within radius
// using recursive shadowcasting over eight octants. The origin is always
// visible. A cell is visible when it lies inside the radius circle and is
// not fully occluded by blocking cells; blockers themselves are visible.
// isBlocking may be nil for an empty room.
func ComputeVisibleCells(origin Point, radius float64, isBlocking func(x, y int) bool) CellSet {
	visible := CellSet{origin: {}}
	if isBlocking == nil {
		isBlocking = func(int, int) bool { return false }
	}
	sc := shadowcaster{
		ox:       origin.X,
		oy:       origin.Y,
		radius:   radius,
		blocking: isBlocking,
		visible:  visible,
	}
	for _, m := range octantTransforms {
		sc.m = m
		sc.scan(1, 1.0, 0.0)
	}
	return visible
}

// shadowcaster carries the per-call state of one visibility computation.
type shadowcaster struct {
	ox, oy   int
	radius   float64
	m        [4]int
	blocking func(x, y int) bool
	visible  CellSet
}

// scan sweeps rows from row outward inside the wedge [end, start] of slopes,
// recursing past each blocker run.
func (sc *shadowcaster) scan(row int, start, end float64) {
	if start < end {
		return
	}
	r2 := sc.radius * sc.radius
	nextStart := start
	for j := row; j <= int(sc.radius); j++ {
		dy := -j
		blocked := false
		for dx := -j; dx <= 0; dx++ {
			x := sc.ox + dx*sc.m[0] + dy*sc.m[1]
			y := sc.oy + dx*sc.m[2] + dy*sc.m[3]

			left := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			right := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < right {
				continue
			}
			if end > left {
				break
			}

			if float64(dx*dx+j*j) <= r2 {
				sc.visible.add(x, y)
			}

			if blocked {
				if sc.blocking(x, y) {
					nextStart = right
				} else {
					blocked = false
					start = nextStart
				}
			} else if sc.blocking(x, y) && float64(j) < sc.radius {
				blocked = true
				sc.scan(j+1, start, left)
				nextStart = right
			}
		}
		if blocked {
			break
		}
	}
}
