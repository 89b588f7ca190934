package cellfx

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Frame is one drawable character block. Chars is a list of equal-length
// rows; spaces are transparent. Fg and Bg hold optional per-character
// overrides (zero alpha = use the sprite default) and may be nil.
type Frame struct {
	Chars [][]rune
	Fg    [][]Color
	Bg    [][]Color
}

// Width returns the frame width in cells.
func (f *Frame) Width() int {
	if f == nil || len(f.Chars) == 0 {
		return 0
	}
	return len(f.Chars[0])
}

// Height returns the frame height in cells.
func (f *Frame) Height() int {
	if f == nil {
		return 0
	}
	return len(f.Chars)
}

// fgAt returns the foreground override at (col, row), if any.
func (f *Frame) fgAt(col, row int) (Color, bool) {
	return overrideAt(f.Fg, col, row)
}

// bgAt returns the background override at (col, row), if any.
func (f *Frame) bgAt(col, row int) (Color, bool) {
	return overrideAt(f.Bg, col, row)
}

func overrideAt(grid [][]Color, col, row int) (Color, bool) {
	if row >= len(grid) || col >= len(grid[row]) {
		return Color{}, false
	}
	c := grid[row][col]
	return c, c.IsSet()
}

// SingleCharFrame returns a 1x1 frame.
func SingleCharFrame(r rune) *Frame {
	return &Frame{Chars: [][]rune{{r}}}
}

// ParseFrame builds a frame from a multi-line pattern. Leading and trailing
// blank lines are dropped, the common indentation is stripped and rows are
// padded with spaces to the widest row. When fg is set every character gets
// it as an override; charColors overrides individual characters and wins
// over fg.
func ParseFrame(pattern string, fg Color, charColors map[rune]Color) *Frame {
	lines := strings.Split(strings.ReplaceAll(pattern, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return &Frame{Chars: [][]rune{{}}}
	}

	indent := math.MaxInt
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rs := []rune(line)
		n := 0
		for n < len(rs) && unicode.IsSpace(rs[n]) {
			n++
		}
		indent = min(indent, n)
	}
	if indent == math.MaxInt {
		indent = 0
	}

	colored := fg.IsSet() || len(charColors) > 0
	f := &Frame{}
	width := 0
	for _, line := range lines {
		rs := []rune(line)
		if len(rs) >= indent {
			rs = rs[indent:]
		} else {
			rs = nil
		}
		f.Chars = append(f.Chars, rs)
		width = max(width, len(rs))
		if colored {
			row := make([]Color, len(rs))
			for i, r := range rs {
				if c, ok := charColors[r]; ok {
					row[i] = c.Opaque()
				} else if fg.IsSet() {
					row[i] = fg
				}
			}
			f.Fg = append(f.Fg, row)
		}
	}
	for i, row := range f.Chars {
		for len(row) < width {
			row = append(row, ' ')
		}
		f.Chars[i] = row
	}
	for i, row := range f.Fg {
		for len(row) < width {
			row = append(row, Color{})
		}
		f.Fg[i] = row
	}
	return f
}

// spriteBase is the state shared by Sprite and EffectSprite: frames, default
// colors, origin and the flags the window pipeline reads.
type spriteBase struct {
	id     EntityID
	frames []*Frame
	// Fg is the default foreground color.
	Fg Color
	// Bg is the default background color; zero alpha is transparent.
	Bg Color
	// Origin is the cell inside the frame that sits at the sprite position.
	Origin Point

	currentFrame int
	visible      bool
	emissive     bool
	blocksLight  bool
	zIndex       int
}

func newSpriteBase(frames []*Frame, fg Color) spriteBase {
	if !fg.IsSet() {
		fg = ColorWhite
	}
	return spriteBase{frames: frames, Fg: fg, visible: true}
}

// ID returns the arena ID assigned when the entity was added to a window.
// Zero means the entity was never added.
func (b *spriteBase) ID() EntityID { return b.id }

func (b *spriteBase) setID(id EntityID) { b.id = id }

// Visible reports whether the entity is drawn.
func (b *spriteBase) Visible() bool { return b.visible }

// SetVisible shows or hides the entity.
func (b *spriteBase) SetVisible(v bool) { b.visible = v }

// Emissive reports whether the entity always feeds bloom regardless of the
// brightness threshold.
func (b *spriteBase) Emissive() bool { return b.emissive }

// SetEmissive toggles bloom emission.
func (b *spriteBase) SetEmissive(v bool) { b.emissive = v }

// BlocksLight reports whether the entity's non-space cells cast shadows.
func (b *spriteBase) BlocksLight() bool { return b.blocksLight }

// SetBlocksLight toggles shadow casting.
func (b *spriteBase) SetBlocksLight(v bool) { b.blocksLight = v }

// ZIndex returns the draw order within the window (higher is on top).
func (b *spriteBase) ZIndex() int { return b.zIndex }

// SetZIndex sets the draw order within the window.
func (b *spriteBase) SetZIndex(z int) { b.zIndex = z }

// Frames returns the frame list. The returned slice MUST NOT be mutated.
func (b *spriteBase) Frames() []*Frame { return b.frames }

// AddFrame appends a frame and returns its index.
func (b *spriteBase) AddFrame(f *Frame) int {
	b.frames = append(b.frames, f)
	return len(b.frames) - 1
}

// AddFramePattern parses pattern with ParseFrame and appends the result.
func (b *spriteBase) AddFramePattern(pattern string, fg Color, charColors map[rune]Color) int {
	return b.AddFrame(ParseFrame(pattern, fg, charColors))
}

// CurrentFrame returns the index of the displayed frame.
func (b *spriteBase) CurrentFrame() int { return b.currentFrame }

// SetFrame displays frame i. Out-of-range indices return ErrInvalidFrame.
func (b *spriteBase) SetFrame(i int) error {
	if i < 0 || i >= len(b.frames) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidFrame, i, len(b.frames))
	}
	b.currentFrame = i
	return nil
}

// frame returns the displayed frame or nil when there is none.
func (b *spriteBase) frame() *Frame {
	if b.currentFrame < 0 || b.currentFrame >= len(b.frames) {
		return nil
	}
	return b.frames[b.currentFrame]
}

// cells visits every non-space cell of the current frame with the frame
// anchored so Origin lands on (x, y).
func (b *spriteBase) cells(x, y int, fn func(x, y int)) {
	f := b.frame()
	if f == nil {
		return
	}
	for row, line := range f.Chars {
		for col, r := range line {
			if r != ' ' {
				fn(x+col-b.Origin.X, y+row-b.Origin.Y)
			}
		}
	}
}

// drawFrame draws the current frame with its top-left cell at pixel (px, py).
func (b *spriteBase) drawFrame(w *Window, dst *Surface, px, py float64, alpha uint8) {
	f := b.frame()
	if f == nil {
		return
	}
	cw, ch := w.CellSize()
	for row, line := range f.Chars {
		for col, r := range line {
			if r == ' ' {
				continue
			}
			fg := b.Fg
			if c, ok := f.fgAt(col, row); ok {
				fg = c
			}
			bg := b.Bg
			if c, ok := f.bgAt(col, row); ok {
				bg = c
			}
			w.PutAtPixel(dst, px+float64(col*cw), py+float64(row*ch), r, fg, bg, alpha)
		}
	}
}

// Sprite is a block of characters with a logical cell position and a
// separately interpolated visual pixel position.
type Sprite struct {
	spriteBase

	x, y             int
	visualX, visualY float64
	// LerpSpeed is the visual interpolation speed in cells per second.
	// Zero snaps to the logical position every update.
	LerpSpeed float64
	teleport  bool

	animations map[string]*Animation
	anim       *Animation
	animIndex  int
	animTimer  float64
	finished   bool

	targetOffset  Vec2
	currentOffset Vec2
	// offsetSpeed is the offset speed of the most recently played
	// animation; it keeps easing the offset home after a stop.
	offsetSpeed float64
}

// NewSprite creates a sprite from frames. A zero fg defaults to white.
func NewSprite(fg Color, frames ...*Frame) *Sprite {
	return &Sprite{
		spriteBase: newSpriteBase(frames, fg),
		animations: make(map[string]*Animation),
	}
}

// NewSpriteFromPattern creates a single-frame sprite from a pattern. The
// frame keeps no per-character overrides, so changing Fg recolors it.
func NewSpriteFromPattern(pattern string, fg Color) *Sprite {
	return NewSprite(fg, ParseFrame(pattern, Color{}, nil))
}

// Position returns the logical cell position.
func (s *Sprite) Position() (int, int) { return s.x, s.y }

// VisualPosition returns the interpolated pixel position (without the
// animation offset).
func (s *Sprite) VisualPosition() (float64, float64) { return s.visualX, s.visualY }

// Offset returns the current animation pixel offset.
func (s *Sprite) Offset() Vec2 { return s.currentOffset }

// CellPosition returns the logical position as floats.
func (s *Sprite) CellPosition() (float64, float64) {
	return float64(s.x), float64(s.y)
}

// MoveTo sets the logical position immediately. The visual position follows
// at LerpSpeed, or snaps on the next update when teleport is set.
func (s *Sprite) MoveTo(x, y int, teleport bool) {
	s.x, s.y = x, y
	if teleport {
		s.teleport = true
	}
}

// Alive always reports true; sprites live until removed.
func (s *Sprite) Alive() bool { return true }

// Cells visits the sprite's non-space cells at its logical position.
func (s *Sprite) Cells(fn func(x, y int)) {
	s.cells(s.x, s.y, fn)
}

// Update advances the animation, eases the animation offset and moves the
// visual position toward the logical one.
func (s *Sprite) Update(dt float64, cellW, cellH int) {
	s.advanceAnimation(dt)

	// Offset easing.
	speed := s.offsetSpeed
	if s.anim != nil {
		speed = s.anim.OffsetSpeed
	}
	s.currentOffset = approach(s.currentOffset, s.targetOffset, speed, dt)

	// Movement easing.
	target := Vec2{X: float64(s.x * cellW), Y: float64(s.y * cellH)}
	if s.LerpSpeed <= 0 || s.teleport {
		s.visualX, s.visualY = target.X, target.Y
		s.teleport = false
		return
	}
	v := approach(Vec2{X: s.visualX, Y: s.visualY}, target, s.LerpSpeed*float64(cellW), dt)
	s.visualX, s.visualY = v.X, v.Y
}

// snapThreshold is the pixel distance under which interpolation snaps.
const snapThreshold = 0.5

// approach moves cur toward target by at most speed*dt pixels, snapping when
// within snapThreshold or when speed is not positive.
func approach(cur, target Vec2, speed, dt float64) Vec2 {
	if speed <= 0 {
		return target
	}
	dx := target.X - cur.X
	dy := target.Y - cur.Y
	dist := math.Hypot(dx, dy)
	if dist <= snapThreshold {
		return target
	}
	step := math.Min(speed*dt, dist)
	return Vec2{X: cur.X + dx/dist*step, Y: cur.Y + dy/dist*step}
}

// Draw renders the current frame at the visual position plus the animation
// offset, shifted so Origin sits on the position.
func (s *Sprite) Draw(w *Window, dst *Surface) {
	cw, ch := w.CellSize()
	px := s.visualX + s.currentOffset.X - float64(s.Origin.X*cw)
	py := s.visualY + s.currentOffset.Y - float64(s.Origin.Y*ch)
	s.drawFrame(w, dst, px, py, 255)
}
