package geometry

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to construct a camera
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction (usually (0,1,0))
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	VFov        float64   // Vertical field of view in degrees
	FocalLength float64   // Distance from the camera to the image plane
}

// Camera generates primary rays through an image plane.
// Pixel row 0 is the top edge of the image plane.
type Camera struct {
	position    core.Vec3
	right       core.Vec3
	up          core.Vec3
	forward     core.Vec3
	focalLength float64
	halfWidth   float64
	halfHeight  float64
	width       int
	height      int
}

// NewCamera creates a pinhole camera from configuration.
// Missing resolution, field of view and focal length fall back to 1x1, 60° and 1.
func NewCamera(config CameraConfig) *Camera {
	config = MergeCameraConfig(DefaultCameraConfig(), config)

	forward := config.LookAt.Subtract(config.Center).Normalize()
	if forward.NearZero() {
		forward = core.NewVec3(0, 0, -1)
	}

	right := forward.Cross(config.Up).Normalize()
	if right.NearZero() {
		// Up is parallel to the view direction; pick any perpendicular axis
		right = forward.Cross(core.NewVec3(0, 0, 1)).Normalize()
		if right.NearZero() {
			right = forward.Cross(core.NewVec3(1, 0, 0)).Normalize()
		}
	}
	up := right.Cross(forward)

	halfHeight := config.FocalLength * math.Tan(config.VFov*math.Pi/360.0)
	halfWidth := halfHeight * float64(config.Width) / float64(config.Height)

	return &Camera{
		position:    config.Center,
		right:       right,
		up:          up,
		forward:     forward,
		focalLength: config.FocalLength,
		halfWidth:   halfWidth,
		halfHeight:  halfHeight,
		width:       config.Width,
		height:      config.Height,
	}
}

// DefaultCameraConfig looks down -Z from the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       1,
		Height:      1,
		VFov:        60,
		FocalLength: 1,
	}
}

// MergeCameraConfig returns base with every non-zero field of override applied
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	if override.FocalLength > 0 {
		result.FocalLength = override.FocalLength
	}
	return result
}

// GetRay returns the ray through fractional pixel coordinates (px, py).
// (0,0) is the top-left corner of the image plane, (width, height) the bottom-right.
func (c *Camera) GetRay(px, py float64) core.Ray {
	u := c.halfWidth * (2*px/float64(c.width) - 1)
	v := c.halfHeight * (1 - 2*py/float64(c.height))

	direction := c.forward.Multiply(c.focalLength).
		Add(c.right.Multiply(u)).
		Add(c.up.Multiply(v))

	return core.NewRay(c.position, direction)
}

// GetPixelRay returns the ray through the top-left corner of pixel (i, j)
func (c *Camera) GetPixelRay(i, j int) core.Ray {
	return c.GetRay(float64(i), float64(j))
}

// GetPosition returns the camera position
func (c *Camera) GetPosition() core.Vec3 {
	return c.position
}

// GetBasis returns the right, up and forward unit vectors
func (c *Camera) GetBasis() (right, up, forward core.Vec3) {
	return c.right, c.up, c.forward
}

// GetResolution returns the image size in pixels
func (c *Camera) GetResolution() (width, height int) {
	return c.width, c.height
}
