package humanoid

import "math"

// Vector2D is a 2D point or displacement in CSS pixel space.
type Vector2D struct {
	X float64
	Y float64
}

func (v Vector2D) Add(o Vector2D) Vector2D { return Vector2D{v.X + o.X, v.Y + o.Y} }
func (v Vector2D) Sub(o Vector2D) Vector2D { return Vector2D{v.X - o.X, v.Y - o.Y} }
func (v Vector2D) Mul(s float64) Vector2D  { return Vector2D{v.X * s, v.Y * s} }

// MagSq returns the squared magnitude, avoiding the sqrt when only a
// comparison is needed.
func (v Vector2D) MagSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vector2D) Mag() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns a unit vector in the same direction, or the zero vector
// when the magnitude is negligible.
func (v Vector2D) Normalize() Vector2D {
	m := v.Mag()
	if m < 1e-9 {
		return Vector2D{}
	}
	return Vector2D{v.X / m, v.Y / m}
}

func (v Vector2D) Dist(o Vector2D) float64 { return v.Sub(o).Mag() }

// Perp returns the counter-clockwise perpendicular.
func (v Vector2D) Perp() Vector2D { return Vector2D{-v.Y, v.X} }
