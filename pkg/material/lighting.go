package material

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
)

// visibleLight samples light from point and casts a shadow ray toward it.
// It returns the sample and the cosine between normal and the light direction;
// ok is false when the light is behind the surface or occluded.
func visibleLight(point, normal core.Vec3, light lights.PointLight, tracer Tracer) (sample lights.LightSample, cosine float64, ok bool) {
	sample = light.Sample(point)
	if sample.Distance == 0 {
		return sample, 0, false
	}

	cosine = normal.Dot(sample.Direction)
	if cosine <= 0 {
		return sample, 0, false
	}

	origin := point.Add(normal.Multiply(ShadowEpsilon))
	toLight := light.Position.Subtract(origin)
	distance := toLight.Length()
	shadowRay := core.NewRay(origin, toLight.Multiply(1.0/distance))
	if tracer.Occluded(shadowRay, ShadowEpsilon, distance) {
		return sample, 0, false
	}

	return sample, cosine, true
}
