package lights

import "github.com/df07/go-recursive-raytracer/pkg/core"

// LightSample describes a light as seen from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Emission  core.Vec3 // Color scaled by intensity
}
