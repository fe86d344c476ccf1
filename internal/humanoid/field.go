package humanoid

import "math"

// ForceSource is a single point of influence in a PotentialField. Positive
// strength attracts the pointer trajectory, negative strength repels it.
type ForceSource struct {
	Position Vector2D
	Strength float64
	// Falloff controls how quickly the force fades with distance; larger
	// values widen the area of influence.
	Falloff float64
}

// PotentialField deforms pointer trajectories by summing forces from its
// sources, so a path can curve toward interesting regions or away from
// obstacles instead of following a sterile straight line.
type PotentialField struct {
	sources []ForceSource
}

func NewPotentialField() *PotentialField {
	return &PotentialField{sources: make([]ForceSource, 0)}
}

func (pf *PotentialField) AddSource(pos Vector2D, strength, falloff float64) {
	pf.sources = append(pf.sources, ForceSource{Position: pos, Strength: strength, Falloff: falloff})
}

// NetForce sums the force every source exerts at a point, using exponential
// decay F = S * exp(-d/L) per source.
func (pf *PotentialField) NetForce(at Vector2D) Vector2D {
	var net Vector2D
	for _, src := range pf.sources {
		toSource := src.Position.Sub(at)
		dist := toSource.Mag()
		if dist < 1e-9 {
			continue
		}
		magnitude := src.Strength * math.Exp(-dist/src.Falloff)
		net = net.Add(toSource.Mul(magnitude / dist))
	}
	return net
}
