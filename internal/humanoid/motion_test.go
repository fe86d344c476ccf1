package humanoid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerPath_EndpointExact(t *testing.T) {
	h := NewTest(12345)
	start := Vector2D{X: 100, Y: 100}
	end := Vector2D{X: 640, Y: 380}

	path := h.PointerPath(start, end)
	require.NotEmpty(t, path)

	last := path[len(path)-1]
	assert.Equal(t, end, last.Pos, "trajectory must terminate exactly on the target")
}

func TestPointerPath_ConfinedToExpandedBox(t *testing.T) {
	h := NewTest(99)
	start := Vector2D{X: 50, Y: 400}
	end := Vector2D{X: 900, Y: 120}
	over := h.Persona().MaxOvershoot

	minX := math.Min(start.X, end.X) - over
	maxX := math.Max(start.X, end.X) + over
	minY := math.Min(start.Y, end.Y) - over
	maxY := math.Max(start.Y, end.Y) + over

	path := h.PointerPath(start, end)
	for i, wp := range path {
		assert.GreaterOrEqual(t, wp.Pos.X, minX, "waypoint %d escaped left", i)
		assert.LessOrEqual(t, wp.Pos.X, maxX, "waypoint %d escaped right", i)
		assert.GreaterOrEqual(t, wp.Pos.Y, minY, "waypoint %d escaped top", i)
		assert.LessOrEqual(t, wp.Pos.Y, maxY, "waypoint %d escaped bottom", i)
	}
}

func TestPointerPath_DurationWithinBounds(t *testing.T) {
	h := NewTest(7)
	persona := h.Persona()
	minDur := time.Duration(persona.MinPathDurationMs * float64(time.Millisecond))
	maxDur := time.Duration(persona.MaxPathDurationMs * float64(time.Millisecond))

	for _, end := range []Vector2D{
		{X: 110, Y: 105}, // short hop
		{X: 800, Y: 600}, // mid
		{X: 3000, Y: 2000}, // long haul, should clamp at max
	} {
		path := h.PointerPath(Vector2D{X: 100, Y: 100}, end)
		total := Duration(path)

		// Per-step truncation can shave a few hundred nanoseconds off the
		// exact movement time.
		tolerance := time.Duration(len(path)) * time.Microsecond
		assert.GreaterOrEqual(t, total+tolerance, minDur, "target %+v too fast", end)
		assert.LessOrEqual(t, total, maxDur+tolerance, "target %+v too slow", end)
	}
}

func TestPointerPath_StepDelaysPositive(t *testing.T) {
	h := NewTest(3)
	path := h.PointerPath(Vector2D{X: 0, Y: 0}, Vector2D{X: 500, Y: 300})
	require.GreaterOrEqual(t, len(path), 4)
	for i, wp := range path {
		assert.Positive(t, wp.Delay, "step %d has a non-positive delay", i)
	}
}

func TestPointerPath_TrivialDistance(t *testing.T) {
	h := NewTest(1)
	start := Vector2D{X: 200, Y: 200}
	end := Vector2D{X: 200.4, Y: 200.2}

	path := h.PointerPath(start, end)
	require.Len(t, path, 1)
	assert.Equal(t, end, path[0].Pos)
	assert.Positive(t, path[0].Delay)
}

func TestPointerPath_Deterministic(t *testing.T) {
	a := NewTest(42).PointerPath(Vector2D{X: 10, Y: 10}, Vector2D{X: 400, Y: 250})
	b := NewTest(42).PointerPath(Vector2D{X: 10, Y: 10}, Vector2D{X: 400, Y: 250})
	assert.Equal(t, a, b, "same seed must reproduce the same trajectory")
}

func TestPointerPathThrough_FieldBendsCurve(t *testing.T) {
	start := Vector2D{X: 0, Y: 0}
	end := Vector2D{X: 600, Y: 0}

	field := NewPotentialField()
	field.AddSource(Vector2D{X: 300, Y: 50}, 5.0, 100.0)

	straight := NewTest(5).PointerPath(start, end)
	bent := NewTest(5).PointerPathThrough(start, end, field)
	assert.NotEqual(t, straight, bent, "a force field must deform the trajectory")
}

func TestMovementTime_GrowsWithDistance(t *testing.T) {
	h := NewTest(11)
	h.mu.Lock()
	short := h.movementTime(50)
	long := h.movementTime(2000)
	h.mu.Unlock()

	// Individual draws jitter +/-15%; these distances are far enough apart
	// that ordering always holds.
	assert.Less(t, short, long)
}

func TestDeCasteljau_Endpoints(t *testing.T) {
	pts := []Vector2D{{X: 0, Y: 0}, {X: 50, Y: 80}, {X: 100, Y: 0}}
	assert.Equal(t, pts[0], deCasteljau(pts, 0))
	assert.Equal(t, pts[2], deCasteljau(pts, 1))

	mid := deCasteljau(pts, 0.5)
	assert.InDelta(t, 50.0, mid.X, 1e-9)
	assert.InDelta(t, 40.0, mid.Y, 1e-9)
}
