package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// A scene is built once and only read while rendering, so workers share it
// without locking.
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []geometry.Shape    // Objects in the scene, in insertion order
	Lights         []lights.PointLight // Lights in the scene
	TopColor       core.Vec3           // Background color straight up
	BottomColor    core.Vec3           // Background color straight down
	SamplingConfig SamplingConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width          int  // Image width
	Height         int  // Image height
	SamplesPerAxis int  // N for the N×N stratified grid per pixel
	MaxDepth       int  // Maximum ray bounce depth
	Jitter         bool // Jitter each sample inside its grid cell
}

// NewScene creates an empty scene viewed through the given camera configuration
func NewScene(cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	cameraConfig = geometry.MergeCameraConfig(cameraConfig, geometry.CameraConfig{
		Width:  samplingConfig.Width,
		Height: samplingConfig.Height,
	})
	samplingConfig.Width = cameraConfig.Width
	samplingConfig.Height = cameraConfig.Height

	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		Shapes:         make([]geometry.Shape, 0),
		Lights:         make([]lights.PointLight, 0),
		TopColor:       core.NewVec3(0.5, 0.7, 1.0),
		BottomColor:    core.NewVec3(1.0, 1.0, 1.0),
		SamplingConfig: samplingConfig,
	}
}

// AddShape appends a shape and returns its index
func (s *Scene) AddShape(shape geometry.Shape) int {
	s.Shapes = append(s.Shapes, shape)
	return len(s.Shapes) - 1
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position, color core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color, intensity))
}

// ClosestHit finds the nearest intersection strictly inside (tMin, tMax).
// Shapes are tested in insertion order and tMax shrinks to every accepted
// hit, so a later shape reporting exactly the same t does not replace an
// earlier one.
func (s *Scene) ClosestHit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	var candidate material.HitRecord
	hitAnything := false
	closest := tMax

	for i, shape := range s.Shapes {
		if shape.Hit(ray, tMin, closest, &candidate) {
			hitAnything = true
			closest = candidate.T
			candidate.ShapeIndex = i
			*hit = candidate
		}
	}

	return hitAnything
}

// Occluded reports whether any shape intersects ray inside (tMin, tMax).
// It stops at the first hit found.
func (s *Scene) Occluded(ray core.Ray, tMin, tMax float64) bool {
	var scratch material.HitRecord
	for _, shape := range s.Shapes {
		if shape.Hit(ray, tMin, tMax, &scratch) {
			return true
		}
	}
	return false
}

// Background returns the vertical gradient seen by a ray that escapes the scene
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return s.BottomColor.Multiply(1.0 - t).Add(s.TopColor.Multiply(t))
}

// GetShape returns the shape stored at index, or nil when out of range
func (s *Scene) GetShape(index int) geometry.Shape {
	if index < 0 || index >= len(s.Shapes) {
		return nil
	}
	return s.Shapes[index]
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// NewGroundQuad creates a large horizontal square made of two triangles
// centered at center with its normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	half := size / 2
	a := core.NewVec3(center.X-half, center.Y, center.Z-half)
	b := core.NewVec3(center.X+half, center.Y, center.Z-half)
	c := core.NewVec3(center.X+half, center.Y, center.Z+half)
	d := core.NewVec3(center.X-half, center.Y, center.Z+half)
	return NewQuad(a, d, c, b, color, shader)
}

// NewQuad splits the planar quad a→b→c→d into two triangles sharing the a–c diagonal.
// The normal follows the a→b→c winding.
func NewQuad(a, b, c, d core.Vec3, color core.Vec3, shader material.Shader) []geometry.Shape {
	return []geometry.Shape{
		geometry.NewTriangle(a, b, c, color, shader),
		geometry.NewTriangle(a, c, d, color, shader),
	}
}
