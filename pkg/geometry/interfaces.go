package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hit fills hit and returns true only for intersections with t strictly
// inside (tMin, tMax). Shapes are immutable once built.
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool
}

// determinantEpsilon bounds denominators treated as zero by the intersection
// routines; the triangle test scales it by its edge and direction lengths
const determinantEpsilon = 1e-12

// inRange reports whether t lies strictly inside (tMin, tMax)
func inRange(t, tMin, tMax float64) bool {
	return t > tMin && t < tMax
}
