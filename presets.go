package cellfx

import "math"

// Preset particle configs. Burst presets have a zero SpawnRate and are meant
// for Window.Burst or Emitter.Burst with the count from the matching
// *Count function; SmokeConfig and TrailConfig drive continuous emitters.

// frameDrag converts a per-frame velocity factor at 60 ticks per second to
// the per-second Drag used by EffectSprite.
func frameDrag(perFrame float64) float64 {
	return math.Pow(perFrame, 60)
}

// directionDegrees converts a screen-space direction (y down) to emitter
// degrees (90 is up). A zero vector yields def.
func directionDegrees(dir Vec2, def float64) float64 {
	if dir.X == 0 && dir.Y == 0 {
		return def
	}
	return math.Atan2(-dir.Y, dir.X) * 180 / math.Pi
}

func scaledCount(base int, intensity float64) int {
	return max(0, int(float64(base)*intensity))
}

// ExplosionConfig is an omnidirectional burst of fire-colored debris that
// falls under gravity.
func ExplosionConfig(intensity float64) EmitterConfig {
	return EmitterConfig{
		Chars: "*+#@%&",
		Colors: []Color{
			RGB(255, 255, 100),
			RGB(255, 200, 50),
			RGB(255, 150, 0),
			RGB(255, 100, 0),
			RGB(255, 50, 0),
		},
		Speed:            3.5 * intensity,
		SpeedVariance:    1,
		Arc:              360,
		Gravity:          3,
		Drag:             frameDrag(0.95),
		FadeTime:         0.65,
		FadeTimeVariance: 0.55,
		MaxParticles:     ExplosionCount(intensity),
		Emissive:         true,
	}
}

// ExplosionCount is the number of particles an explosion bursts.
func ExplosionCount(intensity float64) int { return scaledCount(20, intensity) }

// SparksConfig fires bright sparks along dir. An unset color gives yellow.
func SparksConfig(dir Vec2, intensity float64, color Color) EmitterConfig {
	if !color.IsSet() {
		color = RGB(255, 200, 50)
	}
	return EmitterConfig{
		Chars:            ".*+",
		Colors:           []Color{color, AddColors(color, RGB(50, 50, 0))},
		Speed:            4 * intensity,
		SpeedVariance:    0.5,
		Direction:        directionDegrees(dir, 90),
		Arc:              30,
		Gravity:          5,
		Drag:             frameDrag(0.9),
		FadeTime:         0.4,
		FadeTimeVariance: 0.5,
		MaxParticles:     SparksCount(intensity),
		Emissive:         true,
	}
}

// SparksCount is the number of particles a sparks burst fires.
func SparksCount(intensity float64) int { return scaledCount(15, intensity) }

// SmokeConfig is a rising grey plume emitting for duration seconds. A zero
// duration emits until stopped.
func SmokeConfig(intensity, duration float64) EmitterConfig {
	return EmitterConfig{
		Chars: ".oO",
		Colors: []Color{
			RGB(80, 80, 80),
			RGB(100, 100, 100),
			RGB(120, 120, 120),
			RGB(140, 140, 140),
		},
		SpawnRate:        10 * intensity,
		Spread:           Vec2{X: 0.5},
		Speed:            0.4,
		SpeedVariance:    1,
		Arc:              360,
		Gravity:          -1.5,
		Drag:             frameDrag(0.98),
		FadeTime:         1.75,
		FadeTimeVariance: 0.43,
		EmitterDuration:  duration,
		MaxParticles:     50,
	}
}

// TrailConfig leaves faint dots behind something moving with velocity
// (vx, vy). An unset color gives pale blue.
func TrailConfig(vx, vy float64, color Color) EmitterConfig {
	if !color.IsSet() {
		color = RGB(200, 200, 255)
	}
	return EmitterConfig{
		Chars:            ".",
		Colors:           []Color{color},
		SpawnRate:        20,
		Speed:            0.25,
		SpeedVariance:    1,
		Direction:        directionDegrees(Vec2{X: -vx, Y: -vy}, 0),
		Arc:              90,
		Drag:             frameDrag(0.8),
		FadeTime:         0.35,
		FadeTimeVariance: 0.43,
		MaxParticles:     30,
	}
}

// BloodSplatterConfig sprays dark red droplets along dir that fall quickly.
func BloodSplatterConfig(dir Vec2, intensity float64) EmitterConfig {
	return EmitterConfig{
		Chars: "*.,;:'",
		Colors: []Color{
			RGB(180, 0, 0),
			RGB(150, 0, 0),
			RGB(120, 0, 0),
			RGB(200, 20, 20),
		},
		Speed:            3.5 * intensity,
		SpeedVariance:    0.43,
		Direction:        directionDegrees(dir, 0),
		Arc:              40,
		Gravity:          8,
		Drag:             frameDrag(0.85),
		FadeTime:         1,
		FadeTimeVariance: 0.5,
		MaxParticles:     BloodSplatterCount(intensity),
	}
}

// BloodSplatterCount is the number of droplets a splatter bursts.
func BloodSplatterCount(intensity float64) int { return scaledCount(15, intensity) }

// MagicSparkleConfig is a glowing, slowly rising shimmer around color. An
// unset color gives soft blue.
func MagicSparkleConfig(color Color, intensity float64) EmitterConfig {
	if !color.IsSet() {
		color = RGB(100, 150, 255)
	}
	return EmitterConfig{
		Chars:            "*+.",
		Colors:           []Color{color, AddColors(color, RGB(50, 50, 50)), ColorWhite},
		Speed:            1.2 * intensity,
		SpeedVariance:    1,
		Arc:              360,
		Gravity:          -2,
		Drag:             frameDrag(0.95),
		FadeTime:         0.55,
		FadeTimeVariance: 0.45,
		MaxParticles:     MagicSparkleCount(intensity),
		Emissive:         true,
	}
}

// MagicSparkleCount is the number of particles a sparkle bursts.
func MagicSparkleCount(intensity float64) int { return scaledCount(12, intensity) }
