package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewShadowScene creates spheres floating over a white floor, lit by three
// colored point lights so each light casts its own tinted shadow
func NewShadowScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 3, 6),
		LookAt: core.NewVec3(0, 0.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  400,
		Height: 300,
		VFov:   45.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 2,
		MaxDepth:       4,
		Jitter:         true,
	})

	white := core.NewVec3(0.9, 0.9, 0.9)
	floor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), white, material.NewLambertian(white))
	s.Shapes = append(s.Shapes, floor)

	gray := core.NewVec3(0.7, 0.7, 0.7)
	phong := material.NewBlinnPhong(gray, core.NewVec3(0.3, 0.3, 0.3), 32, cameraConfig.Center)
	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(-1.2, 1.0, 0), 0.6, gray, phong),
		geometry.NewSphere(core.NewVec3(1.2, 0.8, -0.5), 0.5, gray, phong),
		geometry.NewTriangle(
			core.NewVec3(-0.5, 1.6, 1.0),
			core.NewVec3(0.5, 1.6, 1.0),
			core.NewVec3(0.0, 2.2, 0.5),
			gray, material.NewLambertian(gray),
		),
	)

	s.AddPointLight(core.NewVec3(-3, 5, 2), core.NewVec3(1, 0.2, 0.2), 0.8)
	s.AddPointLight(core.NewVec3(0, 6, 3), core.NewVec3(0.2, 1, 0.2), 0.8)
	s.AddPointLight(core.NewVec3(3, 5, 2), core.NewVec3(0.2, 0.2, 1), 0.8)

	return s
}

// NewNormalsScene visualizes surface normals. The last sphere has no shader
// and falls back to normal visualization.
func NewNormalsScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		Width:  400,
		Height: 200,
		VFov:   60.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 1,
		MaxDepth:       1,
	})

	normal := material.NewNormal()
	s.Shapes = append(s.Shapes,
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, core.Vec3{}, normal),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, core.Vec3{}, normal),
		geometry.NewTriangle(
			core.NewVec3(-1.6, -0.4, -1.5),
			core.NewVec3(-0.8, -0.4, -1.5),
			core.NewVec3(-1.2, 0.4, -1.5),
			core.Vec3{}, normal,
		),
		geometry.NewSphere(core.NewVec3(1.2, 0, -1.5), 0.4, core.Vec3{}, nil),
	)

	return s
}
