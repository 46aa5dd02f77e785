package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	// Default camera configuration
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt: core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:     core.NewVec3(0, 1, 0),    // Standard up direction
		Width:  400,
		Height: 225,
		VFov:   40.0,
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 3,
		MaxDepth:       10,
		Jitter:         true,
	})

	eye := cameraConfig.Center

	// Create materials
	groundShader := material.NewShapeColorLambertian()
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	phongBlue := material.NewBlinnPhong(
		core.NewVec3(0.1, 0.2, 0.5), // diffuse
		core.NewVec3(0.6, 0.6, 0.6), // specular
		64,                          // shininess
		eye,
	)
	mirror := material.NewMirror()
	diffuseGold := material.NewDiffuse(core.NewVec3(0.8, 0.6, 0.2))

	// Create spheres with different materials
	sphereCenter := geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, core.NewVec3(0.1, 0.2, 0.5), phongBlue)
	sphereLeft := geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, core.NewVec3(0.8, 0.8, 0.8), mirror)
	sphereRight := geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, core.NewVec3(0.65, 0.25, 0.2), lambertianRed)
	smallSphere := geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, core.NewVec3(0.8, 0.6, 0.2), diffuseGold)

	// Ground plane colored through the shape color
	ground := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0.48, 0.48, 0.0), groundShader)

	s.Shapes = append(s.Shapes, sphereCenter, sphereLeft, sphereRight, smallSphere, ground)

	// Warm key light and a dimmer cool fill light
	s.AddPointLight(core.NewVec3(5, 6, 3), core.NewVec3(1.0, 0.95, 0.9), 1.0)
	s.AddPointLight(core.NewVec3(-4, 3, 2), core.NewVec3(0.6, 0.7, 1.0), 0.4)

	return s
}
