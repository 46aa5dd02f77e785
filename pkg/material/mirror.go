package material

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Mirror is a perfect specular reflector with no color of its own
type Mirror struct{}

// NewMirror creates a mirror shader
func NewMirror() *Mirror {
	return &Mirror{}
}

// Shade returns whatever the reflected ray sees, or black once depth is exhausted
func (m *Mirror) Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	normal := hit.FacingNormal()
	reflected := rayIn.Direction.Reflect(normal)
	origin := hit.Point.Add(normal.Multiply(ShadowEpsilon))

	return tracer.Trace(core.NewRay(origin, reflected), depth, random)
}
