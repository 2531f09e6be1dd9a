package field

import (
	"math"
	"math/rand"
)

// Body is one rock in the field. Size, Speed and RotationRate are fixed at creation;
// position, depth, rotation and trail change every frame.
type Body struct {
	X, Y         float64 // Scene position, centered on the vanishing point
	Depth        float64 // Distance from the viewer; smaller is closer
	Size         float64 // Base radius
	Speed        float64 // Multiplier on the global travel rate
	Rotation     float64 // Current angle (radians)
	RotationRate float64 // Radians per frame at speed multiplier 1
	Trail        Trail   // Recent positions, oldest first
}

// newBody creates a body with randomized parameters drawn from rng.
func newBody(p Params, rng *rand.Rand) *Body {
	return &Body{
		X:            uniform(rng, -p.Spread, p.Spread),
		Y:            uniform(rng, -p.Spread, p.Spread),
		Depth:        uniform(rng, p.MinDepth, p.MaxDepth),
		Size:         uniform(rng, p.MinSize, p.MaxSize),
		Speed:        uniform(rng, p.MinSpeed, p.MaxSpeed),
		Rotation:     rng.Float64() * 2 * math.Pi,
		RotationRate: uniform(rng, -p.MaxRotationRate, p.MaxRotationRate),
		Trail:        NewTrail(p.TrailLength),
	}
}

// respawn puts a body that passed the viewer back at the far plane.
func (b *Body) respawn(p Params, rng *rand.Rand) {
	b.Depth = p.MaxDepth
	b.X = uniform(rng, -p.Spread, p.Spread)
	b.Y = uniform(rng, -p.Spread, p.Spread)
	b.Trail.Reset()
}

// advance records the trail sample and moves the body one frame closer.
// Returns true when the body crossed the near plane and must respawn.
func (b *Body) advance(p Params, speedMultiplier float64) bool {
	b.Trail.Push(Sample{X: b.X, Y: b.Y, Depth: b.Depth})

	b.Depth -= b.Speed * p.BaseRate * speedMultiplier
	b.Rotation += b.RotationRate * speedMultiplier

	return b.Depth < p.NearPlane
}

// clone returns a deep copy, trail included.
func (b *Body) clone() Body {
	c := *b
	c.Trail = b.Trail.clone()
	return c
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
