package cellfx

import (
	"image"
	"testing"
)

func bloomScene() *Surface {
	s := solid(16, 16, ColorBlack)
	s.FillRect(image.Rect(6, 6, 10, 10), ColorWhite)
	return s
}

func sameSurface(a, b *Surface) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}

func TestBloomZeroIntensityIsNoop(t *testing.T) {
	s := bloomScene()
	orig := s.Clone()
	ApplyBloom(s, BloomSettings{Enabled: true, Threshold: 100, BlurScale: 4, Intensity: 0}, nil)
	if !sameSurface(s, orig) {
		t.Error("intensity 0 changed the surface")
	}
}

func TestBloomAddsLayer(t *testing.T) {
	settings := BloomSettings{Enabled: true, Threshold: 100, BlurScale: 4, Intensity: 1}
	s := bloomScene()
	orig := s.Clone()
	layer := BloomLayer(orig, settings, nil)
	if layer == nil {
		t.Fatal("BloomLayer returned nil for a 16x16 surface")
	}

	ApplyBloom(s, settings, nil)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := AddColors(orig.At(x, y), layer.At(x, y))
			if got := s.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if got := s.At(5, 7); got.R == 0 {
		t.Error("pixel next to the bright block did not glow")
	}

	double := bloomScene()
	settings.Intensity = 2
	ApplyBloom(double, settings, nil)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			l := layer.At(x, y)
			want := AddColors(AddColors(orig.At(x, y), l), l)
			if got := double.At(x, y); got != want {
				t.Fatalf("intensity 2 pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBloomFractionalIntensity(t *testing.T) {
	settings := BloomSettings{Enabled: true, Threshold: 100, BlurScale: 4, Intensity: 1}
	full := bloomScene()
	ApplyBloom(full, settings, nil)

	half := bloomScene()
	settings.Intensity = 0.5
	ApplyBloom(half, settings, nil)

	orig := bloomScene()
	p := image.Pt(5, 7)
	o, h, f := orig.At(p.X, p.Y), half.At(p.X, p.Y), full.At(p.X, p.Y)
	if h.R <= o.R || h.R >= f.R {
		t.Errorf("half intensity red %d not between %d and %d", h.R, o.R, f.R)
	}
}

func TestBloomBelowThresholdIsNoop(t *testing.T) {
	s := solid(16, 16, RGB(50, 50, 50))
	orig := s.Clone()
	ApplyBloom(s, BloomSettings{Enabled: true, Threshold: 200, BlurScale: 4, Intensity: 1}, nil)
	if !sameSurface(s, orig) {
		t.Error("dim surface glowed")
	}
}

func TestBloomTinySurfaceIsNoop(t *testing.T) {
	s := solid(3, 8, ColorWhite)
	s.Set(1, 1, ColorBlack)
	orig := s.Clone()
	ApplyBloom(s, BloomSettings{Enabled: true, Threshold: 0, BlurScale: 4, Intensity: 1}, nil)
	if !sameSurface(s, orig) {
		t.Error("surface narrower than 4 pixels was bloomed")
	}
	if BloomLayer(s, DefaultBloomSettings(), nil) != nil {
		t.Error("BloomLayer should be nil below 4x4")
	}
}

func TestBloomEmissiveIgnoresThreshold(t *testing.T) {
	s := solid(16, 16, RGB(50, 50, 50))
	emissive := NewSurface(16, 16)
	emissive.FillRect(image.Rect(6, 6, 10, 10), RGB(50, 50, 50))

	ApplyBloom(s, BloomSettings{Enabled: true, Threshold: 200, BlurScale: 4, Intensity: 1}, emissive)
	if got := s.At(7, 7); got.R <= 50 {
		t.Errorf("emissive pixel = %v, want brighter than 50", got)
	}
	if got := s.At(0, 15); got != RGB(50, 50, 50) {
		t.Errorf("far corner = %v, want unchanged", got)
	}
}
