package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3       // The three vertices
	Color      core.Vec3       // Display color
	Material   material.Shader // Shader of the triangle
	normal     core.Vec3       // Cached unit normal following V0→V1→V2 winding
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, color core.Vec3, shader material.Shader) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Color:    color,
		Material: shader,
	}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	return t
}

// Hit solves o + t·d = V0 + β(V1-V0) + γ(V2-V0) with Cramer's rule.
// Rearranged as β(V0-V1) + γ(V0-V2) + t·d = V0-o, each unknown is a ratio of
// scalar triple products.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	colBeta := t.V0.Subtract(t.V1)
	colGamma := t.V0.Subtract(t.V2)
	rhs := t.V0.Subtract(ray.Origin)

	// det[colBeta colGamma d]; zero when the ray is parallel to the plane or
	// the triangle is degenerate. The cutoff is relative to the column
	// lengths so small meshes stay visible.
	gammaCrossDir := colGamma.Cross(ray.Direction)
	det := colBeta.Dot(gammaCrossDir)
	scale := colBeta.Length() * colGamma.Length() * ray.Direction.Length()
	if math.Abs(det) <= determinantEpsilon*scale {
		return false
	}
	invDet := 1.0 / det

	tParam := colBeta.Dot(colGamma.Cross(rhs)) * invDet
	if !inRange(tParam, tMin, tMax) {
		return false
	}

	gamma := colBeta.Dot(rhs.Cross(ray.Direction)) * invDet
	if gamma < 0 || gamma > 1 {
		return false
	}

	beta := rhs.Dot(gammaCrossDir) * invDet
	if beta < 0 || beta > 1-gamma {
		return false
	}

	hit.T = tParam
	hit.Point = ray.At(tParam)
	hit.U, hit.V = beta, gamma
	hit.Material = t.Material
	hit.Color = t.Color
	hit.SetFaceNormal(ray, t.normal)

	return true
}

// GetNormal returns the triangle's normal vector
func (t *Triangle) GetNormal() core.Vec3 {
	return t.normal
}
