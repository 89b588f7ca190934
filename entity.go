package cellfx

// Entity is anything a window owns and draws each frame: sprites and effect
// sprites. Entities are added to a window's arena and addressed by ID.
type Entity interface {
	ID() EntityID
	// Update advances the entity by dt seconds. cellW and cellH are the
	// owning window's cell size in pixels.
	Update(dt float64, cellW, cellH int)
	// Draw renders the entity into dst using w's glyphs and cell size.
	Draw(w *Window, dst *Surface)
	// Alive reports false once the entity should be dropped.
	Alive() bool
	Visible() bool
	ZIndex() int
	Emissive() bool
	BlocksLight() bool
	// CellPosition is the position lights follow.
	CellPosition() (x, y float64)
	// Cells visits the occupied (non-space) cells of the current frame.
	Cells(fn func(x, y int))

	setID(EntityID)
}

var (
	_ Entity = (*Sprite)(nil)
	_ Entity = (*EffectSprite)(nil)
)

// entityArena stores a window's entities by ID in insertion order.
type entityArena struct {
	nextID EntityID
	byID   map[EntityID]Entity
	order  []Entity
}

func newEntityArena() entityArena {
	return entityArena{byID: make(map[EntityID]Entity)}
}

// add assigns e a fresh ID and appends it. Adding an entity that is already
// present is a no-op.
func (a *entityArena) add(e Entity) EntityID {
	if id := e.ID(); id != 0 {
		if cur, ok := a.byID[id]; ok && cur == e {
			return id
		}
	}
	a.nextID++
	id := a.nextID
	e.setID(id)
	a.byID[id] = e
	a.order = append(a.order, e)
	return id
}

// get resolves id. Removed or unknown IDs report false.
func (a *entityArena) get(id EntityID) (Entity, bool) {
	e, ok := a.byID[id]
	return e, ok
}

// remove drops the entity with the given ID.
func (a *entityArena) remove(id EntityID) bool {
	e, ok := a.byID[id]
	if !ok {
		return false
	}
	delete(a.byID, id)
	for i, x := range a.order {
		if x == e {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// compact removes dead entities in a single pass, preserving order.
func (a *entityArena) compact() int {
	n := 0
	removed := 0
	for _, e := range a.order {
		if e.Alive() {
			a.order[n] = e
			n++
			continue
		}
		delete(a.byID, e.ID())
		removed++
	}
	clear(a.order[n:])
	a.order = a.order[:n]
	return removed
}

// len returns the number of stored entities.
func (a *entityArena) len() int {
	return len(a.order)
}
