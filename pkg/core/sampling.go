package core

import "math/rand"

// NewRandom creates a generator owned by a single worker or tile.
// Generators are never shared between goroutines.
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomInUnitSphere returns a uniformly distributed point strictly inside the
// unit sphere using rejection sampling over the [-1,1]³ cube
func RandomInUnitSphere(random *rand.Rand) Vec3 {
	for {
		p := Vec3{
			X: 2*random.Float64() - 1,
			Y: 2*random.Float64() - 1,
			Z: 2*random.Float64() - 1,
		}
		// Reject the origin as well so the caller can always normalize
		if lenSq := p.LengthSquared(); lenSq < 1.0 && lenSq > 1e-16 {
			return p
		}
	}
}

// RandomUnitVector returns a uniformly distributed direction on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	return RandomInUnitSphere(random).Normalize()
}

// Jitter2D returns a sub-cell offset pair in [0,1)²
func Jitter2D(random *rand.Rand) (float64, float64) {
	return random.Float64(), random.Float64()
}
