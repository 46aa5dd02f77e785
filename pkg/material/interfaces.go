package material

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
)

// ShadowEpsilon offsets secondary ray origins along the normal and bounds the
// near end of occlusion queries, preventing a surface from shadowing itself
const ShadowEpsilon = 1e-3

// Shader computes the color leaving a surface toward the incoming ray.
// Implementations hold only fixed parameters and are safe for concurrent use.
type Shader interface {
	// Shade returns the color for hit. depth is the number of bounces the
	// shader may still spawn through tracer; random belongs to the calling
	// worker and must not be retained.
	Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3
}

// Tracer is the view of the scene and the recursive tracer handed to shaders
type Tracer interface {
	GetLights() []lights.PointLight
	// Occluded reports whether anything intersects ray inside (tMin, tMax)
	Occluded(ray core.Ray, tMin, tMax float64) bool
	// Trace returns the color seen along ray with depth bounces remaining
	Trace(ray core.Ray, depth int, random *rand.Rand) core.Vec3
}

// HitRecord contains information about a ray-object intersection.
// It is only meaningful when the producing Hit call returned true.
type HitRecord struct {
	T          float64   // Parameter t along the ray
	Point      core.Vec3 // Point of intersection
	Normal     core.Vec3 // Unit outward surface normal
	FrontFace  bool      // Whether the ray arrived against the outward normal
	U, V       float64   // Barycentric beta and gamma for triangles
	Material   Shader    // Shader of the hit shape, may be nil
	Color      core.Vec3 // Display color of the hit shape
	ShapeIndex int       // Index of the hit shape in its scene, -1 if none
}

// SetFaceNormal stores the outward normal and records which side was hit
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	h.Normal = outwardNormal
}

// FacingNormal returns the normal flipped to point against the incoming ray
func (h *HitRecord) FacingNormal() core.Vec3 {
	if h.FrontFace {
		return h.Normal
	}
	return h.Normal.Negate()
}
