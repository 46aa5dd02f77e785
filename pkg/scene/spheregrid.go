package scene

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a scene with a grid of Blinn-Phong spheres on a ground plane
func NewSphereGridScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(4.5, 6, 18),    // Position camera farther back and slightly lower
		LookAt: core.NewVec3(4.5, 0.8, 4.5), // Look at center of grid, slightly lower
		Up:     core.NewVec3(0, 1, 0),       // Standard up direction
		Width:  800,
		Height: 450,  // 16:9 aspect ratio
		VFov:   40.0, // Slightly narrower field of view for better framing
	}

	// Apply any overrides using the reusable merge function
	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 2,
		MaxDepth:       5,
		Jitter:         true,
	})

	// A bright sun-like light high and to the side
	s.AddPointLight(core.NewVec3(20, 25, 20), core.NewVec3(1.0, 0.96, 0.9), 1.0)

	// Ground plane (gray lambertian)
	groundPlane := geometry.NewPlane(
		core.NewVec3(0, 0, 0), // point on plane
		core.NewVec3(0, 1, 0), // normal vector (up)
		core.NewVec3(0.5, 0.5, 0.5),
		material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)), // medium gray
	)
	s.Shapes = append(s.Shapes, groundPlane)

	gridSize := 10

	// Fit the grid into roughly 9x9 units
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)

	// Scale sphere radius based on spacing, but keep reasonable minimum/maximum
	sphereRadius := spacing * 0.35
	sphereRadius = math.Max(0.02, math.Min(0.35, sphereRadius))

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			// Position sphere in grid, centered around x=z=4.5
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Every seventh sphere is a mirror
			var shader material.Shader
			if (i*gridSize+j)%7 == 3 {
				shader = material.NewMirror()
			} else {
				shininess := 16.0 * float64(1+(i+j)%3)
				shader = material.NewBlinnPhong(color, core.NewVec3(0.5, 0.5, 0.5), shininess, cameraConfig.Center)
			}

			s.Shapes = append(s.Shapes, geometry.NewSphere(position, sphereRadius, color, shader))
		}
	}

	return s
}
