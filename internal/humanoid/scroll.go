package humanoid

import (
	"math"
	"time"
)

// ScrollStep is one wheel increment: a vertical delta and the pause after it.
type ScrollStep struct {
	DeltaY float64
	Pause  time.Duration
}

// ScrollPlan splits a total scroll distance into irregular wheel-sized
// increments with reading pauses between them, optionally overshooting past
// the target and regressing back the way people do when skimming. The
// deltas always sum to totalDelta.
func (h *Humanoid) ScrollPlan(totalDelta float64) []ScrollStep {
	h.mu.Lock()
	defer h.mu.Unlock()

	if totalDelta == 0 {
		return nil
	}
	sign := 1.0
	if totalDelta < 0 {
		sign = -1.0
	}
	remaining := math.Abs(totalDelta)

	minStep := float64(h.persona.ScrollStepMin)
	maxStep := float64(h.persona.ScrollStepMax)
	if maxStep <= minStep {
		maxStep = minStep + 1
	}

	steps := make([]ScrollStep, 0, int(remaining/minStep)+2)
	for remaining > 0 {
		chunk := minStep + h.rng.Float64()*(maxStep-minStep)
		if chunk > remaining {
			chunk = remaining
		}
		remaining -= chunk
		steps = append(steps, ScrollStep{
			DeltaY: sign * chunk,
			Pause:  sampleDelay(h.rng, h.timing.ScrollPause),
		})
	}

	if h.rng.Float64() < h.persona.ScrollOvershootProbability && len(steps) > 1 {
		// Scroll a little past the target, pause, and come back.
		over := minStep * (0.5 + h.rng.Float64()*0.5)
		steps = append(steps,
			ScrollStep{DeltaY: sign * over, Pause: sampleDelay(h.rng, h.timing.ScrollPause)},
			ScrollStep{DeltaY: -sign * over, Pause: sampleDelay(h.rng, h.timing.ScrollPause)},
		)
	} else if h.rng.Float64() < h.persona.ScrollRegressionProbability && len(steps) > 2 {
		// Brief regression mid-read, then continue to the same endpoint.
		back := minStep * (0.3 + h.rng.Float64()*0.4)
		mid := len(steps) / 2
		regress := []ScrollStep{
			{DeltaY: -sign * back, Pause: sampleDelay(h.rng, h.timing.ScrollPause)},
			{DeltaY: sign * back, Pause: sampleDelay(h.rng, h.timing.ScrollPause)},
		}
		steps = append(steps[:mid], append(regress, steps[mid:]...)...)
	}
	return steps
}
