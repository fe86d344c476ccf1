package humanoid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var allDelayKinds = []DelayKind{
	DelayPreClick, DelayPostClick, DelayPreType, DelayScrollPause, DelayThinkingPause,
}

func TestDelay_AlwaysWithinConfiguredBounds(t *testing.T) {
	h := NewTest(4242)
	timing := DefaultTimingConfig()

	for _, kind := range allDelayKinds {
		dist := timing.distribution(kind)
		for i := 0; i < 500; i++ {
			d := h.Delay(kind)
			assert.GreaterOrEqual(t, d, time.Duration(dist.MinMs*float64(time.Millisecond)),
				"%s draw %d below minimum", kind, i)
			assert.Positive(t, d, "%s draw %d not positive", kind, i)
			// Fatigue may stretch thinking pauses beyond the raw cap.
			if kind != DelayThinkingPause {
				assert.LessOrEqual(t, d, time.Duration(dist.MaxMs*float64(time.Millisecond)),
					"%s draw %d above maximum", kind, i)
			}
		}
	}
}

func TestSampleDelay_DegenerateDistribution(t *testing.T) {
	h := NewTest(1)
	// A zeroed distribution must still never produce a non-positive pause.
	d := sampleDelay(h.rng, DelayDistribution{})
	assert.GreaterOrEqual(t, d, time.Millisecond)
}

func TestDelay_FatigueStretchesThinking(t *testing.T) {
	rested := NewTest(9)
	tired := NewTest(9)
	tired.fatigue = 1.0

	var restedTotal, tiredTotal time.Duration
	for i := 0; i < 200; i++ {
		restedTotal += rested.Delay(DelayThinkingPause)
		tiredTotal += tired.Delay(DelayThinkingPause)
	}
	assert.Greater(t, tiredTotal, restedTotal,
		"full fatigue should lengthen thinking pauses on average")
}

func TestClickHold_WithinConfiguredRange(t *testing.T) {
	h := NewTest(21)
	persona := h.Persona()
	for i := 0; i < 300; i++ {
		d := h.ClickHold()
		assert.GreaterOrEqual(t, d, time.Duration(persona.ClickHoldMinMs)*time.Millisecond)
		assert.LessOrEqual(t, d, time.Duration(persona.ClickHoldMaxMs)*time.Millisecond)
	}
}
