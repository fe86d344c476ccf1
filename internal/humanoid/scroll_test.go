package humanoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planSum(steps []ScrollStep) float64 {
	var sum float64
	for _, s := range steps {
		sum += s.DeltaY
	}
	return sum
}

func TestScrollPlan_DeltasSumToTotal(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		h := NewTest(seed)
		for _, total := range []float64{1500, -900, 80, -40, 3.5} {
			steps := h.ScrollPlan(total)
			require.NotEmpty(t, steps, "seed %d total %v", seed, total)
			assert.InDelta(t, total, planSum(steps), 1e-9,
				"seed %d total %v does not sum", seed, total)
		}
	}
}

func TestScrollPlan_ZeroIsEmpty(t *testing.T) {
	h := NewTest(1)
	assert.Empty(t, h.ScrollPlan(0))
}

func TestScrollPlan_StepsBounded(t *testing.T) {
	h := NewTest(6)
	persona := h.Persona()
	maxStep := float64(persona.ScrollStepMax)

	steps := h.ScrollPlan(4000)
	for i, s := range steps {
		assert.LessOrEqual(t, math.Abs(s.DeltaY), maxStep,
			"step %d exceeds wheel increment ceiling", i)
		assert.Positive(t, s.Pause, "step %d missing pause", i)
	}
	assert.Greater(t, len(steps), 1, "a long scroll must be incremental, never one jump")
}

func TestScrollPlan_PreservesDirection(t *testing.T) {
	h := NewTest(10)
	down := h.ScrollPlan(800)
	net := planSum(down)
	assert.Positive(t, net)

	up := h.ScrollPlan(-800)
	assert.Negative(t, planSum(up))
}
