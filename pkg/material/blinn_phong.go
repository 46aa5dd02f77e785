package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// BlinnPhong adds a half-vector specular highlight to diffuse lighting
type BlinnPhong struct {
	Diffuse   core.Vec3 // kd
	Specular  core.Vec3 // ks
	Shininess float64   // Specular exponent p
	Eye       core.Vec3 // Viewer position used for the view direction
}

// NewBlinnPhong creates a Blinn-Phong shader viewed from eye
func NewBlinnPhong(diffuse, specular core.Vec3, shininess float64, eye core.Vec3) *BlinnPhong {
	return &BlinnPhong{
		Diffuse:   diffuse,
		Specular:  specular,
		Shininess: shininess,
		Eye:       eye,
	}
}

// Shade evaluates kd*max(0,n·l) + ks*max(0,n·h)^p per unoccluded light
func (b *BlinnPhong) Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3 {
	normal := hit.FacingNormal()
	view := b.Eye.Subtract(hit.Point).Normalize()

	var color core.Vec3
	for _, light := range tracer.GetLights() {
		sample, cosine, ok := visibleLight(hit.Point, normal, light, tracer)
		if !ok {
			continue
		}

		half := sample.Direction.Add(view).Normalize()
		specular := math.Pow(math.Max(0, normal.Dot(half)), b.Shininess)

		response := b.Diffuse.Multiply(cosine).Add(b.Specular.Multiply(specular))
		color = color.Add(response.MultiplyVec(sample.Emission))
	}

	return color.Clamp(0, 1)
}
