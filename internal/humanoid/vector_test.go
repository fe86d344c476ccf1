package humanoid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2D_Arithmetic(t *testing.T) {
	a := Vector2D{X: 3, Y: 4}
	b := Vector2D{X: 1, Y: -2}

	assert.Equal(t, Vector2D{X: 4, Y: 2}, a.Add(b))
	assert.Equal(t, Vector2D{X: 2, Y: 6}, a.Sub(b))
	assert.Equal(t, Vector2D{X: 6, Y: 8}, a.Mul(2))
	assert.InDelta(t, 5.0, a.Mag(), 1e-9)
	assert.InDelta(t, 25.0, a.MagSq(), 1e-9)
}

func TestVector2D_Normalize(t *testing.T) {
	v := Vector2D{X: 10, Y: 0}.Normalize()
	assert.InDelta(t, 1.0, v.Mag(), 1e-9)

	zero := Vector2D{}.Normalize()
	assert.Equal(t, Vector2D{}, zero, "normalizing zero must not produce NaN")
}

func TestVector2D_Perp(t *testing.T) {
	v := Vector2D{X: 1, Y: 0}
	p := v.Perp()
	// Perpendicularity: dot product is zero.
	assert.InDelta(t, 0.0, v.X*p.X+v.Y*p.Y, 1e-9)
	assert.InDelta(t, 1.0, p.Mag(), 1e-9)
}

func TestVector2D_Dist(t *testing.T) {
	a := Vector2D{X: 0, Y: 0}
	b := Vector2D{X: 3, Y: 4}
	assert.InDelta(t, 5.0, a.Dist(b), 1e-9)
}

func TestPotentialField_AttractsTowardSource(t *testing.T) {
	pf := NewPotentialField()
	pf.AddSource(Vector2D{X: 100, Y: 0}, 10.0, 50.0)

	force := pf.NetForce(Vector2D{X: 0, Y: 0})
	assert.Positive(t, force.X, "positive strength should pull toward the source")
	assert.InDelta(t, 0.0, force.Y, 1e-9)
}

func TestPotentialField_RepelsWithNegativeStrength(t *testing.T) {
	pf := NewPotentialField()
	pf.AddSource(Vector2D{X: 100, Y: 0}, -10.0, 50.0)

	force := pf.NetForce(Vector2D{X: 0, Y: 0})
	assert.Negative(t, force.X)
}

func TestPotentialField_DecaysWithDistance(t *testing.T) {
	pf := NewPotentialField()
	pf.AddSource(Vector2D{X: 0, Y: 0}, 10.0, 50.0)

	near := pf.NetForce(Vector2D{X: 10, Y: 0}).Mag()
	far := pf.NetForce(Vector2D{X: 400, Y: 0}).Mag()
	assert.Greater(t, near, far)
	assert.True(t, !math.IsNaN(near) && !math.IsNaN(far))
}

func TestPotentialField_IgnoresCoincidentPoint(t *testing.T) {
	pf := NewPotentialField()
	pf.AddSource(Vector2D{X: 5, Y: 5}, 10.0, 50.0)
	force := pf.NetForce(Vector2D{X: 5, Y: 5})
	assert.Equal(t, Vector2D{}, force)
}
