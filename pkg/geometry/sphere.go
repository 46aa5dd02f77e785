package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Color    core.Vec3
	Material material.Shader
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, color core.Vec3, shader material.Shader) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Color:    color,
		Material: shader,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	if s.Radius <= 0 {
		return false
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a < determinantEpsilon {
		return false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	// Same sign as b² - 4ac
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Prefer the nearer root, fall back to the farther one
	root := (-halfB - sqrtD) / a
	if !inRange(root, tMin, tMax) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, tMin, tMax) {
			return false
		}
	}

	hit.T = root
	hit.Point = ray.At(root)
	hit.U, hit.V = 0, 0
	hit.Material = s.Material
	hit.Color = s.Color
	hit.SetFaceNormal(ray, hit.Point.Subtract(s.Center).Normalize())

	return true
}
