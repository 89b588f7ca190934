package cellfx

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Surface is a CPU pixel buffer with straight (non-premultiplied) alpha.
// Windows, glyphs, bloom scratch buffers and the composited frame are all
// Surfaces, so every pass can read and write pixels directly.
type Surface struct {
	img *image.NRGBA
}

// NewSurface allocates a transparent surface of w x h pixels. Negative sizes
// are treated as zero.
func NewSurface(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// SurfaceFromImage copies any image into a new surface.
func SurfaceFromImage(src image.Image) *Surface {
	b := src.Bounds()
	s := NewSurface(b.Dx(), b.Dy())
	xdraw.Draw(s.img, s.img.Bounds(), src, b.Min, xdraw.Src)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	if s == nil || s.img == nil {
		return 0
	}
	return s.img.Rect.Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	if s == nil || s.img == nil {
		return 0
	}
	return s.img.Rect.Dy()
}

// Bounds returns the pixel rectangle of the surface.
func (s *Surface) Bounds() image.Rectangle {
	if s == nil || s.img == nil {
		return image.Rectangle{}
	}
	return s.img.Rect
}

// Image exposes the backing image. Writes through it are visible to the
// surface.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// pixels returns the raw pixel slice and stride, or ErrNoPixelAccess when
// the surface has nothing to address.
func (s *Surface) pixels() ([]uint8, int, error) {
	if s == nil || s.img == nil || len(s.img.Pix) == 0 {
		return nil, 0, ErrNoPixelAccess
	}
	return s.img.Pix, s.img.Stride, nil
}

// Clear makes every pixel transparent black.
func (s *Surface) Clear() {
	if s == nil || s.img == nil {
		return
	}
	clear(s.img.Pix)
}

// Fill overwrites every pixel with c.
func (s *Surface) Fill(c Color) {
	s.FillRect(s.Bounds(), c)
}

// FillRect overwrites the pixels of r (clipped to the surface) with c.
func (s *Surface) FillRect(r image.Rectangle, c Color) {
	r = r.Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	pix := s.img.Pix
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			pix[i] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
			i += 4
		}
	}
}

// At returns the pixel at (x, y), or the zero color when out of bounds.
func (s *Surface) At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return Color{}
	}
	i := s.img.PixOffset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the pixel at (x, y). Out-of-bounds writes are ignored.
func (s *Surface) Set(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return
	}
	i := s.img.PixOffset(x, y)
	p := s.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Clone returns a deep copy of s.
func (s *Surface) Clone() *Surface {
	c := NewSurface(s.Width(), s.Height())
	if s != nil && s.img != nil {
		copy(c.img.Pix, s.img.Pix)
	}
	return c
}

// CopyFrom overwrites s with the pixels of src. Both must share a size;
// otherwise the overlapping region is copied.
func (s *Surface) CopyFrom(src *Surface) {
	if s.Width() == src.Width() && s.Height() == src.Height() {
		if s.img != nil {
			copy(s.img.Pix, src.img.Pix)
		}
		return
	}
	s.Blit(src, 0, 0, BlendNone)
}

// Blit draws src with its top-left corner at (x, y) using mode.
func (s *Surface) Blit(src *Surface, x, y int, mode BlendMode) {
	if mode == BlendNormal {
		s.BlitAlpha(src, x, y, 255)
		return
	}
	s.blit(src, x, y, func(d, sp []uint8) {
		switch mode {
		case BlendAdd:
			d[0] = addChannel(d[0], sp[0])
			d[1] = addChannel(d[1], sp[1])
			d[2] = addChannel(d[2], sp[2])
		case BlendSubtract:
			d[0] = subChannel(d[0], sp[0])
			d[1] = subChannel(d[1], sp[1])
			d[2] = subChannel(d[2], sp[2])
		case BlendMultiply:
			d[0] = mulChannel(d[0], sp[0])
			d[1] = mulChannel(d[1], sp[1])
			d[2] = mulChannel(d[2], sp[2])
		default:
			copy(d, sp)
		}
	})
}

// BlitAlpha draws src over s with source-over compositing, scaling the
// source alpha by alpha/255.
func (s *Surface) BlitAlpha(src *Surface, x, y int, alpha uint8) {
	if alpha == 0 {
		return
	}
	a := int(alpha)
	s.blit(src, x, y, func(d, sp []uint8) {
		sa := int(sp[3]) * a / 255
		if sa == 0 {
			return
		}
		if sa == 255 {
			d[0], d[1], d[2], d[3] = sp[0], sp[1], sp[2], 255
			return
		}
		dw := int(d[3]) * (255 - sa) / 255
		outA := sa + dw
		d[0] = uint8((int(sp[0])*sa + int(d[0])*dw) / outA)
		d[1] = uint8((int(sp[1])*sa + int(d[1])*dw) / outA)
		d[2] = uint8((int(sp[2])*sa + int(d[2])*dw) / outA)
		d[3] = uint8(outA)
	})
}

// blit walks the clipped overlap of src placed at (x, y) and calls op with
// each destination and source pixel.
func (s *Surface) blit(src *Surface, x, y int, op func(d, sp []uint8)) {
	if src == nil || src.img == nil || s == nil || s.img == nil {
		return
	}
	sb := src.Bounds()
	dr := image.Rect(x, y, x+sb.Dx(), y+sb.Dy()).Intersect(s.Bounds())
	if dr.Empty() {
		return
	}
	sx0 := dr.Min.X - x
	sy0 := dr.Min.Y - y
	w := dr.Dx()
	for row := 0; row < dr.Dy(); row++ {
		di := s.img.PixOffset(dr.Min.X, dr.Min.Y+row)
		si := src.img.PixOffset(sx0, sy0+row)
		for col := 0; col < w; col++ {
			op(s.img.Pix[di:di+4:di+4], src.img.Pix[si:si+4:si+4])
			di += 4
			si += 4
		}
	}
}

// FillBlend combines a flat color with every pixel's RGB channels using an
// RGB blend mode. BlendNormal and BlendNone behave like Fill.
func (s *Surface) FillBlend(c Color, mode BlendMode) {
	pix, _, err := s.pixels()
	if err != nil {
		return
	}
	switch mode {
	case BlendAdd, BlendSubtract, BlendMultiply:
	default:
		s.Fill(c)
		return
	}
	for i := 0; i < len(pix); i += 4 {
		switch mode {
		case BlendAdd:
			pix[i] = addChannel(pix[i], c.R)
			pix[i+1] = addChannel(pix[i+1], c.G)
			pix[i+2] = addChannel(pix[i+2], c.B)
		case BlendSubtract:
			pix[i] = subChannel(pix[i], c.R)
			pix[i+1] = subChannel(pix[i+1], c.G)
			pix[i+2] = subChannel(pix[i+2], c.B)
		case BlendMultiply:
			pix[i] = mulChannel(pix[i], c.R)
			pix[i+1] = mulChannel(pix[i+1], c.G)
			pix[i+2] = mulChannel(pix[i+2], c.B)
		}
	}
}

// SetAlpha overwrites the alpha channel of every pixel.
func (s *Surface) SetAlpha(a uint8) {
	pix, _, err := s.pixels()
	if err != nil {
		return
	}
	for i := 3; i < len(pix); i += 4 {
		pix[i] = a
	}
}

// SmoothScale returns a copy of s resampled to w x h with a bilinear kernel.
// When shrinking, the kernel widens so every source pixel contributes.
func (s *Surface) SmoothScale(w, h int) *Surface {
	dst := NewSurface(w, h)
	s.SmoothScaleInto(dst)
	return dst
}

// SmoothScaleInto resamples s to fill dst.
func (s *Surface) SmoothScaleInto(dst *Surface) {
	if dst.Width() == 0 || dst.Height() == 0 || s.Width() == 0 || s.Height() == 0 {
		return
	}
	xdraw.BiLinear.Scale(dst.img, dst.img.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
}

// Scale returns a nearest-neighbour resample of s at w x h.
func (s *Surface) Scale(w, h int) *Surface {
	dst := NewSurface(w, h)
	if w == 0 || h == 0 || s.Width() == 0 || s.Height() == 0 {
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst.img, dst.img.Bounds(), s.img, s.img.Bounds(), xdraw.Src, nil)
	return dst
}

// WritePremultiplied fills buf (4*w*h bytes) with premultiplied RGBA, the
// layout GPU uploads expect.
func (s *Surface) WritePremultiplied(buf []byte) {
	pix, _, err := s.pixels()
	if err != nil {
		return
	}
	n := min(len(buf), len(pix))
	for i := 0; i+3 < n; i += 4 {
		a := pix[i+3]
		switch a {
		case 255:
			buf[i], buf[i+1], buf[i+2], buf[i+3] = pix[i], pix[i+1], pix[i+2], 255
		case 0:
			buf[i], buf[i+1], buf[i+2], buf[i+3] = 0, 0, 0, 0
		default:
			buf[i] = uint8(int(pix[i]) * int(a) / 255)
			buf[i+1] = uint8(int(pix[i+1]) * int(a) / 255)
			buf[i+2] = uint8(int(pix[i+2]) * int(a) / 255)
			buf[i+3] = a
		}
	}
}

func addChannel(d, s uint8) uint8 {
	v := int(d) + int(s)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func subChannel(d, s uint8) uint8 {
	if s >= d {
		return 0
	}
	return d - s
}

// mulChannel multiplies two channels the way 8-bit blitters do: zero stays
// zero and otherwise (d*s + 255) >> 8.
func mulChannel(d, s uint8) uint8 {
	if d == 0 || s == 0 {
		return 0
	}
	return uint8((int(d)*int(s) + 255) >> 8)
}

// --- Scratch surface pool ---

// surfacePool recycles scratch surfaces keyed by exact dimensions. After
// warmup, Acquire/Release are allocation-free. Not safe for concurrent use;
// each window owns its own pool.
type surfacePool struct {
	buckets map[uint64][]*Surface
}

// poolKey packs width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(uint32(h))
}

// Acquire returns a cleared surface of exactly w x h pixels.
func (p *surfacePool) Acquire(w, h int) *Surface {
	key := poolKey(w, h)
	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			s := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			s.Clear()
			return s
		}
	}
	return NewSurface(w, h)
}

// Release returns a surface to the pool. It is cleared on the next Acquire.
func (p *surfacePool) Release(s *Surface) {
	if s == nil || s.img == nil {
		return
	}
	key := poolKey(s.Width(), s.Height())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*Surface)
	}
	p.buckets[key] = append(p.buckets[key], s)
}
