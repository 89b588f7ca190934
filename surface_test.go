package cellfx

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c Color) *Surface {
	s := NewSurface(w, h)
	s.Fill(c)
	return s
}

func TestSurfaceSize(t *testing.T) {
	s := NewSurface(3, 2)
	if s.Width() != 3 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", s.Width(), s.Height())
	}
	if n := NewSurface(-1, 5); n.Width() != 0 || n.Height() != 5 {
		t.Errorf("negative width: size = %dx%d", n.Width(), n.Height())
	}
	if got := s.At(0, 0); got != Transparent {
		t.Errorf("new surface pixel = %v, want transparent", got)
	}
}

func TestSurfaceSetAtBounds(t *testing.T) {
	s := NewSurface(2, 2)
	s.Set(1, 1, ColorRed)
	s.Set(5, 5, ColorRed) // ignored
	if got := s.At(1, 1); got != ColorRed {
		t.Errorf("At(1,1) = %v, want red", got)
	}
	if got := s.At(-1, 0); got != Transparent {
		t.Errorf("At(-1,0) = %v, want transparent", got)
	}
}

func TestFillRectClips(t *testing.T) {
	s := NewSurface(4, 4)
	s.FillRect(image.Rect(2, 2, 10, 10), ColorBlue)
	if s.At(1, 1) != Transparent {
		t.Error("pixel outside rect was filled")
	}
	if s.At(3, 3) != ColorBlue {
		t.Error("pixel inside rect was not filled")
	}
}

func TestBlitModes(t *testing.T) {
	tests := []struct {
		name string
		mode BlendMode
		dst  Color
		src  Color
		want Color
	}{
		{"add saturates", BlendAdd, RGB(200, 100, 0), Color{100, 100, 100, 50}, RGB(255, 200, 100)},
		{"subtract clamps", BlendSubtract, RGB(50, 100, 200), RGB(100, 50, 50), RGB(0, 50, 150)},
		{"multiply", BlendMultiply, RGB(255, 128, 100), RGB(255, 255, 100), RGB(255, 128, 40)},
		{"multiply zero", BlendMultiply, RGB(0, 10, 255), RGB(255, 0, 1), RGB(0, 0, 1)},
		{"none copies", BlendNone, RGB(1, 2, 3), Color{9, 8, 7, 6}, Color{9, 8, 7, 6}},
		{"normal opaque", BlendNormal, RGB(1, 2, 3), RGB(9, 8, 7), RGB(9, 8, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := solid(2, 2, tt.dst)
			dst.Blit(solid(2, 2, tt.src), 0, 0, tt.mode)
			if got := dst.At(1, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlitClipsNegativeOffset(t *testing.T) {
	dst := NewSurface(4, 4)
	src := solid(3, 3, ColorGreen)
	dst.Blit(src, -2, -2, BlendNone)
	if dst.At(0, 0) != ColorGreen {
		t.Error("overlap pixel not copied")
	}
	if dst.At(1, 1) != Transparent {
		t.Error("pixel beyond source was written")
	}
}

func TestBlitAlpha(t *testing.T) {
	dst := solid(1, 1, ColorBlack)
	dst.BlitAlpha(solid(1, 1, ColorWhite), 0, 0, 128)
	if got := dst.At(0, 0); got != RGB(128, 128, 128) {
		t.Errorf("half alpha over black = %v, want (128,128,128)", got)
	}

	dst = solid(1, 1, ColorBlack)
	dst.BlitAlpha(solid(1, 1, ColorWhite), 0, 0, 0)
	if got := dst.At(0, 0); got != ColorBlack {
		t.Errorf("zero alpha changed destination: %v", got)
	}

	// Transparent destination takes the source color.
	dst = NewSurface(1, 1)
	dst.BlitAlpha(solid(1, 1, Color{R: 200, A: 100}), 0, 0, 255)
	if got := dst.At(0, 0); got != (Color{R: 200, A: 100}) {
		t.Errorf("over transparent = %v, want (200,0,0,100)", got)
	}
}

func TestFillBlendKeepsAlpha(t *testing.T) {
	s := solid(2, 1, Color{R: 100, G: 100, B: 100, A: 77})
	s.FillBlend(RGB(30, 200, 0), BlendSubtract)
	if got := s.At(0, 0); got != (Color{R: 70, G: 0, B: 100, A: 77}) {
		t.Errorf("subtract = %v", got)
	}
	s.FillBlend(RGB(255, 255, 255), BlendAdd)
	if got := s.At(1, 0); got != (Color{R: 255, G: 255, B: 255, A: 77}) {
		t.Errorf("add = %v", got)
	}
}

func TestSmoothScaleUniform(t *testing.T) {
	c := RGB(10, 200, 30)
	s := solid(8, 8, c)
	small := s.SmoothScale(2, 2)
	big := small.SmoothScale(8, 8)
	for _, p := range []image.Point{{0, 0}, {3, 5}, {7, 7}} {
		got := big.At(p.X, p.Y)
		if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 || got.A != 255 {
			t.Errorf("pixel %v = %v, want ~%v", p, got, c)
		}
	}
}

func TestScaleNearest(t *testing.T) {
	s := NewSurface(2, 1)
	s.Set(0, 0, ColorRed)
	s.Set(1, 0, ColorBlue)
	big := s.Scale(4, 2)
	if big.At(1, 1) != ColorRed || big.At(2, 0) != ColorBlue {
		t.Errorf("nearest scale: %v %v", big.At(1, 1), big.At(2, 0))
	}
}

func TestWritePremultiplied(t *testing.T) {
	s := NewSurface(3, 1)
	s.Set(0, 0, Color{200, 100, 50, 128})
	s.Set(1, 0, Color{200, 100, 50, 0})
	s.Set(2, 0, RGB(1, 2, 3))
	buf := make([]byte, 12)
	s.WritePremultiplied(buf)
	want := []byte{100, 50, 25, 128, 0, 0, 0, 0, 1, 2, 3, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf = %v, want %v", buf, want)
		}
	}
}

func TestPixelsErrorOnEmptySurface(t *testing.T) {
	_, _, err := NewSurface(0, 0).pixels()
	if !errors.Is(err, ErrNoPixelAccess) {
		t.Errorf("err = %v, want ErrNoPixelAccess", err)
	}
	var nilSurface *Surface
	if _, _, err := nilSurface.pixels(); !errors.Is(err, ErrNoPixelAccess) {
		t.Errorf("nil surface err = %v, want ErrNoPixelAccess", err)
	}
}

func TestSurfacePoolReuse(t *testing.T) {
	var p surfacePool
	a := p.Acquire(4, 3)
	a.Fill(ColorRed)
	p.Release(a)

	b := p.Acquire(4, 3)
	if b != a {
		t.Error("Acquire did not reuse released surface")
	}
	if b.At(0, 0) != Transparent {
		t.Error("reused surface not cleared")
	}
	if c := p.Acquire(4, 3); c == a {
		t.Error("Acquire returned a surface that is still in use")
	}
	if d := p.Acquire(3, 4); d.Width() != 3 || d.Height() != 4 {
		t.Errorf("Acquire(3,4) size = %dx%d", d.Width(), d.Height())
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestSurfaceFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.SetNRGBA(2, 3, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(4, 4, color.NRGBA{B: 200, A: 255})

	s := SurfaceFromImage(img)
	if s.Width() != 3 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", s.Width(), s.Height())
	}
	if got := s.At(0, 0); got != RGB(255, 0, 0) {
		t.Errorf("At(0,0) = %v, want red", got)
	}
	if got := s.At(2, 1); got != RGB(0, 0, 200) {
		t.Errorf("At(2,1) = %v, want blue", got)
	}
	if got := s.At(1, 0); got.A != 0 {
		t.Errorf("At(1,0) = %v, want transparent", got)
	}
}
