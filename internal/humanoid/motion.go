package humanoid

import (
	"math"
	"time"
)

// Waypoint is one step of a pointer trajectory: an absolute position and the
// delay to wait after dispatching the move to it.
type Waypoint struct {
	Pos   Vector2D
	Delay time.Duration
}

// Duration sums the per-step delays of a trajectory.
func Duration(path []Waypoint) time.Duration {
	var total time.Duration
	for _, wp := range path {
		total += wp.Delay
	}
	return total
}

// PointerPath generates a trajectory from start to end with no external
// force field.
func (h *Humanoid) PointerPath(start, end Vector2D) []Waypoint {
	return h.PointerPathThrough(start, end, nil)
}

// PointerPathThrough generates a curved trajectory deformed by an optional
// potential field. The curve is a Bezier through 1-3 randomized control
// points offset from the straight chord, sampled at a rate proportional to
// the Fitts's Law movement time, with Perlin drift and Gaussian tremor per
// waypoint. Hard invariants regardless of the sampled persona: every
// waypoint lies within MaxOvershoot of the start/end bounding box, and the
// total duration lies within [MinPathDurationMs, MaxPathDurationMs].
func (h *Humanoid) PointerPathThrough(start, end Vector2D, field *PotentialField) []Waypoint {
	h.mu.Lock()
	defer h.mu.Unlock()

	dist := start.Dist(end)
	if dist < 1.0 {
		return []Waypoint{{Pos: end, Delay: h.minStepDelay()}}
	}

	duration := h.movementTime(dist)
	numSteps := int(duration.Seconds() * 125)
	if numSteps < 4 {
		numSteps = 4
	}
	if numSteps > 300 {
		numSteps = 300
	}

	curve := h.controlPoints(start, end, dist, field)
	delays := h.stepDelays(duration, numSteps)

	path := make([]Waypoint, numSteps)
	noiseBase := h.rng.Float64() * 1000
	elapsed := 0.0
	for i := 0; i < numSteps; i++ {
		t := float64(i) / float64(numSteps-1)
		pos := deCasteljau(curve, easeInOutCubic(t))

		// Perlin drift gives the slow wandering component, Gaussian noise
		// the high-frequency tremor. Endpoints stay exact.
		if i > 0 && i < numSteps-1 {
			elapsed += delays[i-1].Seconds()
			drift := Vector2D{
				X: h.noiseX.Noise1D(noiseBase+elapsed*0.8) * h.persona.PerlinAmplitude,
				Y: h.noiseY.Noise1D(noiseBase+elapsed*0.8) * h.persona.PerlinAmplitude,
			}
			tremor := Vector2D{
				X: h.rng.NormFloat64() * h.persona.GaussianStrength,
				Y: h.rng.NormFloat64() * h.persona.GaussianStrength,
			}
			pos = pos.Add(drift).Add(tremor)
		}

		path[i] = Waypoint{Pos: h.confine(pos, start, end), Delay: delays[i]}
	}
	path[numSteps-1].Pos = end
	return path
}

// movementTime applies Fitts's Law, MT = A + B*log2(1 + D/W), with the
// persona's sampled coefficients, a +/-15% per-movement variation, a fatigue
// slowdown, and the configured hard clamp.
func (h *Humanoid) movementTime(dist float64) time.Duration {
	const targetWidth = 30.0
	id := math.Log2(1.0 + dist/targetWidth)
	mt := h.persona.FittsA + h.persona.FittsB*id
	mt += mt * (h.rng.Float64()*0.3 - 0.15)
	mt *= 1 + h.fatigue*0.3
	mt = clamp(mt, h.persona.MinPathDurationMs, h.persona.MaxPathDurationMs)
	return time.Duration(mt * float64(time.Millisecond))
}

// controlPoints builds the Bezier control polygon: the endpoints plus 1-3
// interior points displaced perpendicular to the chord and nudged by the
// force field.
func (h *Humanoid) controlPoints(start, end Vector2D, dist float64, field *PotentialField) []Vector2D {
	chord := end.Sub(start)
	perp := chord.Normalize().Perp()

	nCtrl := 1 + h.rng.Intn(3)
	pts := make([]Vector2D, 0, nCtrl+2)
	pts = append(pts, start)
	maxOffset := h.persona.MaxOvershoot * 0.8
	for i := 1; i <= nCtrl; i++ {
		frac := float64(i) / float64(nCtrl+1)
		base := start.Add(chord.Mul(frac))
		offset := clamp(h.rng.NormFloat64()*dist*0.08, -maxOffset, maxOffset)
		pt := base.Add(perp.Mul(offset))
		if field != nil {
			force := field.NetForce(base)
			pt = pt.Add(force.Mul(dist * 0.1))
		}
		pts = append(pts, pt)
	}
	pts = append(pts, end)
	return pts
}

// stepDelays splits the movement time into jittered per-step delays whose
// sum is exactly the movement time, each clamped to the configured per-step
// bounds before a final rescale.
func (h *Humanoid) stepDelays(duration time.Duration, numSteps int) []time.Duration {
	factors := make([]float64, numSteps)
	var sum float64
	for i := range factors {
		factors[i] = 0.8 + h.rng.Float64()*0.4
		sum += factors[i]
	}
	minStep := h.persona.MinStepDelayMs * float64(time.Millisecond)
	maxStep := h.persona.MaxStepDelayMs * float64(time.Millisecond)

	delays := make([]time.Duration, numSteps)
	for i, f := range factors {
		d := float64(duration) * f / sum
		delays[i] = time.Duration(clamp(d, minStep, maxStep))
	}
	return delays
}

// confine clamps a waypoint into the straight-line bounding box expanded by
// MaxOvershoot on every side.
func (h *Humanoid) confine(p, start, end Vector2D) Vector2D {
	over := h.persona.MaxOvershoot
	minX := math.Min(start.X, end.X) - over
	maxX := math.Max(start.X, end.X) + over
	minY := math.Min(start.Y, end.Y) - over
	maxY := math.Max(start.Y, end.Y) + over
	return Vector2D{X: clamp(p.X, minX, maxX), Y: clamp(p.Y, minY, maxY)}
}

func (h *Humanoid) minStepDelay() time.Duration {
	ms := h.persona.MinStepDelayMs
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// easeInOutCubic provides smooth acceleration and deceleration along the
// curve parameter.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// deCasteljau evaluates a Bezier curve of arbitrary degree at parameter t.
func deCasteljau(pts []Vector2D, t float64) Vector2D {
	work := make([]Vector2D, len(pts))
	copy(work, pts)
	for level := len(work) - 1; level > 0; level-- {
		for i := 0; i < level; i++ {
			work[i] = work[i].Mul(1 - t).Add(work[i+1].Mul(t))
		}
	}
	return work[0]
}
