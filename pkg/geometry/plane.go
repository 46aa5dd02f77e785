package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3       // A point on the plane
	Normal   core.Vec3       // Unit normal
	Color    core.Vec3       // Display color
	Material material.Shader // Shader of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, color core.Vec3, shader material.Shader) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Color:    color,
		Material: shader,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	// Parallel rays and zero-length normals never hit
	denominator := ray.Direction.Dot(p.Normal)
	if denominator > -determinantEpsilon && denominator < determinantEpsilon {
		return false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !inRange(t, tMin, tMax) {
		return false
	}

	hit.T = t
	hit.Point = ray.At(t)
	hit.U, hit.V = 0, 0
	hit.Material = p.Material
	hit.Color = p.Color
	hit.SetFaceNormal(ray, p.Normal)

	return true
}
