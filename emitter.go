package cellfx

import (
	"math"
	"math/rand/v2"
)

// EmitterConfig controls what an Emitter spawns and how particles behave.
// Variances are multiplicative: a value v with variance 0.2 is drawn from
// v*(1±0.2).
type EmitterConfig struct {
	// Chars are picked uniformly for each particle.
	Chars string
	// Colors are picked uniformly for each particle. Empty means white.
	Colors []Color

	// SpawnRate is particles per second.
	SpawnRate         float64
	SpawnRateVariance float64

	// Spread is the random spawn offset in cells on each axis.
	Spread Vec2
	// CellLocked snaps spawn positions to whole cells.
	CellLocked bool

	// Speed is the initial speed in cells per second.
	Speed         float64
	SpeedVariance float64
	// Direction is the emission angle in degrees: 0 is right, 90 is up.
	Direction float64
	// Arc is the spread of emission angles in degrees around Direction.
	Arc float64

	// Drag and Gravity are copied to each particle (see EffectSprite).
	Drag             float64
	Gravity          float64
	FadeTime         float64
	FadeTimeVariance float64
	// Duration is a hard particle lifetime; zero lets FadeTime decide.
	Duration         float64
	DurationVariance float64

	// EmitterDuration is how long the emitter runs. Zero runs forever.
	EmitterDuration float64
	// MaxParticles caps the number of living particles from this emitter.
	MaxParticles int
	// ZIndex is assigned to every particle.
	ZIndex int
	// Emissive marks particles as bloom sources.
	Emissive bool
}

// DefaultEmitterConfig returns a white omnidirectional "*" fountain.
func DefaultEmitterConfig() EmitterConfig {
	return EmitterConfig{
		Chars:        "*",
		SpawnRate:    10,
		Speed:        5,
		Arc:          360,
		Drag:         1,
		FadeTime:     1,
		MaxParticles: 100,
	}
}

// Emitter continuously spawns EffectSprites into the window it is attached
// to. Particles are owned by the window; the emitter only tracks them to
// enforce MaxParticles.
type Emitter struct {
	X, Y   float64
	config EmitterConfig

	active    bool
	alive     bool
	age       float64
	emitAccum float64
	spawned   []*EffectSprite
	rng       *rand.Rand
	chars     []rune
	window    *Window
}

// NewEmitter creates an active emitter at cell position (x, y).
func NewEmitter(x, y float64, cfg EmitterConfig) *Emitter {
	if cfg.Chars == "" {
		cfg.Chars = "*"
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = []Color{ColorWhite}
	}
	return &Emitter{
		X:      x,
		Y:      y,
		config: cfg,
		active: true,
		alive:  true,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		chars:  []rune(cfg.Chars),
	}
}

// SetRand replaces the random source, for deterministic playback.
func (e *Emitter) SetRand(r *rand.Rand) {
	e.rng = r
}

// Config returns a pointer to the emitter's config for live tuning. Chars
// changes take effect via SetChars.
func (e *Emitter) Config() *EmitterConfig {
	return &e.config
}

// SetChars replaces the particle characters.
func (e *Emitter) SetChars(chars string) {
	if chars == "" {
		chars = "*"
	}
	e.config.Chars = chars
	e.chars = []rune(chars)
}

// IsActive reports whether the emitter is spawning.
func (e *Emitter) IsActive() bool { return e.active }

// Alive reports false once the emitter expired or was killed.
func (e *Emitter) Alive() bool { return e.alive }

// Age returns the seconds the emitter has run.
func (e *Emitter) Age() float64 { return e.age }

// Start resumes spawning.
func (e *Emitter) Start() {
	if e.alive {
		e.active = true
	}
}

// Stop stops spawning. Existing particles live out their lifetimes.
func (e *Emitter) Stop() {
	e.active = false
}

// Kill stops spawning and marks the emitter for removal.
func (e *Emitter) Kill() {
	e.active = false
	e.alive = false
}

// MoveTo moves the emitter to a new cell position.
func (e *Emitter) MoveTo(x, y float64) {
	e.X, e.Y = x, y
}

// SpawnedAlive returns the number of tracked particles still alive.
func (e *Emitter) SpawnedAlive() int {
	n := 0
	for _, p := range e.spawned {
		if p.Alive() {
			n++
		}
	}
	return n
}

// Burst spawns up to n particles at once into the window the emitter is
// attached to, regardless of the spawn rate or Stop. MaxParticles still
// caps the living count. It returns the number spawned.
func (e *Emitter) Burst(n int) int {
	if e.window == nil || !e.alive {
		return 0
	}
	e.prune()
	spawned := 0
	for ; spawned < n && len(e.spawned) < e.config.MaxParticles; spawned++ {
		e.spawn(e.window)
	}
	return spawned
}

// prune forgets particles that have died.
func (e *Emitter) prune() {
	n := 0
	for _, p := range e.spawned {
		if p.Alive() {
			e.spawned[n] = p
			n++
		}
	}
	clear(e.spawned[n:])
	e.spawned = e.spawned[:n]
}

// update ages the emitter and spawns particles into w.
func (e *Emitter) update(dt float64, w *Window) {
	if !e.alive {
		return
	}
	e.age += dt
	if e.config.EmitterDuration > 0 && e.age >= e.config.EmitterDuration {
		e.Kill()
		return
	}
	if !e.active {
		return
	}

	e.prune()
	e.emitAccum += dt * e.vary(e.config.SpawnRate, e.config.SpawnRateVariance)
	for e.emitAccum >= 1 && len(e.spawned) < e.config.MaxParticles {
		e.emitAccum--
		e.spawn(w)
	}
}

// spawn creates one particle with randomized properties.
func (e *Emitter) spawn(w *Window) {
	cfg := &e.config

	sx := e.X + e.uniform(-cfg.Spread.X, cfg.Spread.X)
	sy := e.Y + e.uniform(-cfg.Spread.Y, cfg.Spread.Y)
	if cfg.CellLocked {
		sx = math.RoundToEven(sx)
		sy = math.RoundToEven(sy)
	}

	angle := (cfg.Direction + e.uniform(-cfg.Arc/2, cfg.Arc/2)) * math.Pi / 180
	speed := e.vary(cfg.Speed, cfg.SpeedVariance)

	r := e.chars[e.rng.IntN(len(e.chars))]
	c := cfg.Colors[e.rng.IntN(len(cfg.Colors))]

	p := NewEffectChar(r, c)
	p.X, p.Y = sx, sy
	p.VX = math.Cos(angle) * speed
	p.VY = -math.Sin(angle) * speed // screen y grows downward
	p.Drag = cfg.Drag
	p.Gravity = cfg.Gravity
	p.FadeTime = e.vary(cfg.FadeTime, cfg.FadeTimeVariance)
	if cfg.Duration > 0 {
		p.Duration = e.vary(cfg.Duration, cfg.DurationVariance)
	}
	p.zIndex = cfg.ZIndex
	p.emissive = cfg.Emissive

	w.AddEffect(p)
	e.spawned = append(e.spawned, p)
}

// vary applies multiplicative variance to v.
func (e *Emitter) vary(v, variance float64) float64 {
	if variance <= 0 {
		return v
	}
	return v * (1 + e.uniform(-variance, variance))
}

// uniform returns a value in [lo, hi].
func (e *Emitter) uniform(lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	return lo + e.rng.Float64()*(hi-lo)
}
