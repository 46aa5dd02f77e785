package material

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Diffuse scatters one Monte Carlo bounce around the normal and tints the
// gathered light by its reflectance
type Diffuse struct {
	Reflectance core.Vec3
}

// NewDiffuse creates a Monte Carlo diffuse shader
func NewDiffuse(reflectance core.Vec3) *Diffuse {
	return &Diffuse{Reflectance: reflectance}
}

// Shade traces a single scattered ray using the caller's generator
func (d *Diffuse) Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	normal := hit.FacingNormal()

	// normal + random unit vector; falls back to the normal when they cancel
	direction := normal.Add(core.RandomUnitVector(random))
	if direction.NearZero() {
		direction = normal
	}

	origin := hit.Point.Add(normal.Multiply(ShadowEpsilon))
	incoming := tracer.Trace(core.NewRay(origin, direction), depth, random)
	return d.Reflectance.MultiplyVec(incoming)
}
