package cellfx

// BloomSettings configures the glow pass of a window.
type BloomSettings struct {
	Enabled bool
	// Threshold is subtracted from every channel before blurring, so only
	// brighter pixels glow (0 to 255).
	Threshold int
	// BlurScale is the largest downscale factor of the blur chain. Passes
	// run at 2, 4, 8, ... up to BlurScale.
	BlurScale int
	// Intensity is how many times the glow is added back. The integer part
	// is applied as whole passes and the remainder as one dimmed pass.
	Intensity float64
}

// DefaultBloomSettings returns a disabled configuration with the standard
// threshold, blur scale and intensity.
func DefaultBloomSettings() BloomSettings {
	return BloomSettings{Threshold: 200, BlurScale: 4, Intensity: 1}
}

// clamped returns b with Threshold in [0, 255], BlurScale >= 1 and
// Intensity >= 0.
func (b BloomSettings) clamped() BloomSettings {
	b.Threshold = max(0, min(255, b.Threshold))
	b.BlurScale = max(1, b.BlurScale)
	if b.Intensity < 0 {
		b.Intensity = 0
	}
	return b
}

// minBloomSize is the smallest width and height bloom operates on.
const minBloomSize = 4

// BloomLayer computes the blurred glow that ApplyBloom adds to s. It returns
// nil when s is too small. emissive may be nil.
func BloomLayer(s *Surface, settings BloomSettings, emissive *Surface) *Surface {
	var pool surfacePool
	return bloomLayer(&pool, s, settings.clamped(), emissive)
}

// bloomLayer does the work of BloomLayer with scratch surfaces from pool.
// The caller releases the returned surface.
func bloomLayer(pool *surfacePool, s *Surface, settings BloomSettings, emissive *Surface) *Surface {
	w, h := s.Width(), s.Height()
	if w < minBloomSize || h < minBloomSize {
		return nil
	}

	// Bright pass: keep only what exceeds the threshold, plus emissive
	// content at full strength.
	bright := pool.Acquire(w, h)
	bright.CopyFrom(s)
	bright.SetAlpha(255)
	t := uint8(settings.Threshold)
	bright.FillBlend(Color{R: t, G: t, B: t}, BlendSubtract)
	if emissive != nil {
		bright.Blit(emissive, 0, 0, BlendAdd)
	}

	// Blur chain: shrink and regrow at doubling scales, summing each pass.
	blurred := pool.Acquire(w, h)
	for scale := 2; scale <= settings.BlurScale && w/scale >= 1 && h/scale >= 1; scale *= 2 {
		small := pool.Acquire(max(1, w/scale), max(1, h/scale))
		bright.SmoothScaleInto(small)
		up := pool.Acquire(w, h)
		small.SmoothScaleInto(up)
		blurred.Blit(up, 0, 0, BlendAdd)
		pool.Release(small)
		pool.Release(up)
	}
	pool.Release(bright)
	return blurred
}

// ApplyBloom adds a soft glow around bright pixels of s in place. emissive,
// when non-nil, glows regardless of the threshold. Surfaces smaller than 4x4
// and intensities of zero leave s untouched.
func ApplyBloom(s *Surface, settings BloomSettings, emissive *Surface) {
	var pool surfacePool
	applyBloom(&pool, s, settings.clamped(), emissive)
}

func applyBloom(pool *surfacePool, s *Surface, settings BloomSettings, emissive *Surface) {
	if settings.Intensity <= 0 {
		return
	}
	blurred := bloomLayer(pool, s, settings, emissive)
	if blurred == nil {
		return
	}
	defer pool.Release(blurred)

	full := int(settings.Intensity)
	frac := settings.Intensity - float64(full)
	for range full {
		s.Blit(blurred, 0, 0, BlendAdd)
	}
	if frac > 0 {
		fv := uint8(255 * frac)
		dim := pool.Acquire(s.Width(), s.Height())
		dim.CopyFrom(blurred)
		dim.FillBlend(Color{R: fv, G: fv, B: fv}, BlendMultiply)
		s.Blit(dim, 0, 0, BlendAdd)
		pool.Release(dim)
	}
}
