package material

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Lambertian is an ideal diffuse surface lit directly by point lights
type Lambertian struct {
	Color         core.Vec3 // Base color
	UseShapeColor bool      // Use the hit shape's display color instead of Color
}

// NewLambertian creates a lambertian shader with a fixed base color
func NewLambertian(color core.Vec3) *Lambertian {
	return &Lambertian{Color: color}
}

// NewShapeColorLambertian creates a lambertian shader tinted by whichever shape it is attached to
func NewShapeColorLambertian() *Lambertian {
	return &Lambertian{UseShapeColor: true}
}

// Shade sums max(0, n·l) * lightColor * intensity over unoccluded lights
func (l *Lambertian) Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3 {
	normal := hit.FacingNormal()

	var irradiance core.Vec3
	for _, light := range tracer.GetLights() {
		sample, cosine, ok := visibleLight(hit.Point, normal, light, tracer)
		if !ok {
			continue
		}
		irradiance = irradiance.Add(sample.Emission.Multiply(cosine))
	}

	base := l.Color
	if l.UseShapeColor {
		base = hit.Color
	}
	return irradiance.MultiplyVec(base).Clamp(0, 1)
}
