// Package humanoid generates the motion and timing material for human-like
// browser input: pointer trajectories, typing schedules, and pause
// distributions. Generators are pure with respect to the page; they produce
// traces that the interaction executor dispatches.
package humanoid

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aquilax/go-perlin"

	"github.com/xkilldash9x/wayfarer/api/schemas"
)

// Humanoid holds one session's behavioral persona: the sampled motor
// parameters, the entropy source, and the slowly drifting fatigue level.
// All methods are safe for use from a single session goroutine; the mutex
// guards the rng and fatigue state against accidental cross-goroutine use.
type Humanoid struct {
	mu      sync.Mutex
	base    Config
	persona Config
	timing  TimingConfig

	fatigue        float64
	lastActionTime time.Time

	rng    *rand.Rand
	noiseX *perlin.Perlin
	noiseY *perlin.Perlin
}

// New creates a Humanoid with a session persona sampled from cfg. A nil rng
// seeds one from the wall clock; passing an explicit rng makes the entire
// behavior deterministic, which tests rely on.
func New(cfg Config, timing TimingConfig, rng *rand.Rand) *Humanoid {
	seed := time.Now().UnixNano()
	if rng == nil {
		rng = rand.New(rand.NewSource(seed))
	}

	cfg.NormalizeTypoRates()
	persona := cfg
	persona.Finalize(rng)

	// Standard Perlin noise parameters.
	alpha, beta, n := 2.0, 2.0, int32(3)

	return &Humanoid{
		base:           cfg,
		persona:        persona,
		timing:         timing,
		lastActionTime: time.Now(),
		rng:            rng,
		noiseX:         perlin.NewPerlin(alpha, beta, n, seed),
		noiseY:         perlin.NewPerlin(alpha, beta, n, seed+1),
	}
}

// NewTest creates a deterministic Humanoid: seeded rng, seeded noise, and a
// persona pinned to the configured means.
func NewTest(seed int64) *Humanoid {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(seed))

	persona := cfg
	persona.Finalize(nil)

	return &Humanoid{
		base:           cfg,
		persona:        persona,
		timing:         DefaultTimingConfig(),
		lastActionTime: time.Now(),
		rng:            rng,
		noiseX:         perlin.NewPerlin(2, 2, 3, seed),
		noiseY:         perlin.NewPerlin(2, 2, 3, seed+1),
	}
}

// Persona exposes the sampled instance parameters, read-only.
func (h *Humanoid) Persona() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.persona
}

// Delay draws one pause of the given kind from its configured distribution.
// The draw is never zero or negative when a minimum is configured.
func (h *Humanoid) Delay(kind DelayKind) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	d := sampleDelay(h.rng, h.timing.distribution(kind))
	if kind == DelayThinkingPause && h.fatigue > 0 {
		d = time.Duration(float64(d) * (1 + h.fatigue*h.persona.KeyPauseFatigueFactor))
	}
	return d
}

// ClickHold draws the press-to-release hold time for one click.
func (h *Humanoid) ClickHold() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	span := h.persona.ClickHoldMaxMs - h.persona.ClickHoldMinMs
	ms := h.persona.ClickHoldMinMs + h.rng.Intn(span+1)
	return time.Duration(ms) * time.Millisecond
}

// TargetPoint picks a click point inside an element's box: Gaussian around
// the center, confined to the central 90% of the box, never pinned to the
// exact center. Center-only clicking is itself a detectable tell.
func (h *Humanoid) TargetPoint(geom *schemas.ElementGeometry) Vector2D {
	h.mu.Lock()
	defer h.mu.Unlock()

	center := quadCenter(geom)
	w := float64(geom.Width)
	hgt := float64(geom.Height)
	if w < 2 || hgt < 2 {
		return center
	}

	// Effective box excludes a 5% margin on every edge.
	effW, effH := w*0.9, hgt*0.9
	x := center.X + h.rng.NormFloat64()*(effW/6)
	y := center.Y + h.rng.NormFloat64()*(effH/6)

	x = clamp(x, center.X-effW/2+1, center.X+effW/2-1)
	y = clamp(y, center.Y-effH/2+1, center.Y+effH/2-1)
	return Vector2D{X: x, Y: y}
}

// RecordAction advances the fatigue model: effort accumulates with each
// action and drains back during idle gaps.
func (h *Humanoid) RecordAction(cost float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	idle := now.Sub(h.lastActionTime).Minutes()
	h.fatigue -= idle * h.persona.FatigueRecoveryRate
	h.fatigue += cost * h.persona.FatigueIncreaseRate
	h.fatigue = clamp(h.fatigue, 0, 1)
	h.lastActionTime = now
}

// Fatigue returns the current fatigue level in [0, 1].
func (h *Humanoid) Fatigue() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fatigue
}

func quadCenter(geom *schemas.ElementGeometry) Vector2D {
	v := geom.Vertices
	if len(v) < 8 {
		return Vector2D{}
	}
	return Vector2D{
		X: (v[0] + v[2] + v[4] + v[6]) / 4,
		Y: (v[1] + v[3] + v[5] + v[7]) / 4,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
