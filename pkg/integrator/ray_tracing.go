package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

const (
	// DefaultMaxDepth is used when a scene does not set a bounce limit
	DefaultMaxDepth = 10
	// MaxSupportedDepth bounds recursion so the goroutine stack stays small
	MaxSupportedDepth = 512
	// MinT keeps rays from re-hitting the surface they start on
	MinT = 1e-3
)

// fallbackShader shades shapes that carry no shader
var fallbackShader material.Shader = material.NewNormal()

// RayTracingIntegrator implements recursive Whitted-style ray tracing: closest
// hit, shader dispatch, and shader-driven recursion bounded by a depth counter.
// It only reads the scene and is safe for concurrent use.
type RayTracingIntegrator struct {
	scene    *scene.Scene
	maxDepth int
}

// NewRayTracingIntegrator creates a tracer over s using its sampling MaxDepth.
// Non-positive depths fall back to DefaultMaxDepth and larger ones are capped
// at MaxSupportedDepth.
func NewRayTracingIntegrator(s *scene.Scene) *RayTracingIntegrator {
	return &RayTracingIntegrator{
		scene:    s,
		maxDepth: ClampDepth(s.SamplingConfig.MaxDepth),
	}
}

// ClampDepth maps a requested bounce limit into [1, MaxSupportedDepth]
func ClampDepth(depth int) int {
	if depth <= 0 {
		return DefaultMaxDepth
	}
	return min(depth, MaxSupportedDepth)
}

// MaxDepth returns the bounce limit used for primary rays
func (rt *RayTracingIntegrator) MaxDepth() int {
	return rt.maxDepth
}

// RayColor traces a primary ray with the full bounce budget
func (rt *RayTracingIntegrator) RayColor(ray core.Ray, random *rand.Rand) core.Vec3 {
	return rt.Trace(ray, rt.maxDepth, random)
}

// Trace returns the color seen along ray with depth levels of recursion left.
// A hit hands depth-1 to the shader, which may spend it on further rays.
func (rt *RayTracingIntegrator) Trace(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	var hit material.HitRecord
	if !rt.scene.ClosestHit(ray, MinT, math.Inf(1), &hit) {
		return rt.scene.Background(ray)
	}

	shader := hit.Material
	if shader == nil {
		shader = fallbackShader
	}

	return shader.Shade(ray, &hit, rt, depth-1, random)
}

// GetLights returns the scene's point lights
func (rt *RayTracingIntegrator) GetLights() []lights.PointLight {
	return rt.scene.Lights
}

// Occluded reports whether any shape blocks ray inside (tMin, tMax)
func (rt *RayTracingIntegrator) Occluded(ray core.Ray, tMin, tMax float64) bool {
	return rt.scene.Occluded(ray, tMin, tMax)
}
