package integrator

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color seen along a primary ray. random belongs to
	// the calling worker.
	RayColor(ray core.Ray, random *rand.Rand) core.Vec3
}
