package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with triangle walls and a ceiling light
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt: core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:     core.NewVec3(0, 1, 0),        // Standard up direction
		Width:  400,
		Height: 400,  // Square aspect ratio for Cornell box
		VFov:   40.0, // Field of view
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 4,
		MaxDepth:       6,
		Jitter:         true,
	})
	// Black background
	s.TopColor = core.NewVec3(0, 0, 0)
	s.BottomColor = core.NewVec3(0, 0, 0)

	// Create materials
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0
	corner := func(x, y, z float64) core.Vec3 {
		return core.NewVec3(x*boxSize, y*boxSize, z*boxSize)
	}

	// Walls face into the box
	floor := NewQuad(corner(0, 0, 0), corner(0, 0, 1), corner(1, 0, 1), corner(1, 0, 0), core.NewVec3(0.73, 0.73, 0.73), white)
	ceiling := NewQuad(corner(0, 1, 0), corner(1, 1, 0), corner(1, 1, 1), corner(0, 1, 1), core.NewVec3(0.73, 0.73, 0.73), white)
	backWall := NewQuad(corner(0, 0, 1), corner(0, 1, 1), corner(1, 1, 1), corner(1, 0, 1), core.NewVec3(0.73, 0.73, 0.73), white)
	leftWall := NewQuad(corner(0, 0, 0), corner(0, 1, 0), corner(0, 1, 1), corner(0, 0, 1), core.NewVec3(0.65, 0.05, 0.05), red)
	rightWall := NewQuad(corner(1, 0, 0), corner(1, 0, 1), corner(1, 1, 1), corner(1, 1, 0), core.NewVec3(0.12, 0.45, 0.15), green)

	for _, wall := range [][]geometry.Shape{floor, ceiling, backWall, leftWall, rightWall} {
		s.Shapes = append(s.Shapes, wall...)
	}

	// Ceiling light just below the ceiling, with a dim fill near the camera so
	// shadowed regions are not pure black
	s.AddPointLight(core.NewVec3(278, boxSize-10, 278), core.NewVec3(1.0, 1.0, 1.0), 1.0)
	s.AddPointLight(core.NewVec3(278, 400, -200), core.NewVec3(1.0, 1.0, 1.0), 0.25)

	// Left sphere (mirror)
	leftSphere := geometry.NewSphere(
		core.NewVec3(185, 82.5, 169), // position
		82.5,                         // radius
		core.NewVec3(0.8, 0.8, 0.9),
		material.NewMirror(),
	)

	// Right sphere (Monte Carlo diffuse)
	rightSphere := geometry.NewSphere(
		core.NewVec3(370, 90, 351), // position
		90,                         // radius
		core.NewVec3(0.7, 0.7, 0.7),
		material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7)),
	)

	s.Shapes = append(s.Shapes, leftSphere, rightSphere)

	return s
}
