package lights

import "github.com/df07/go-recursive-raytracer/pkg/core"

// PointLight is an infinitesimal light with no falloff
type PointLight struct {
	Position  core.Vec3
	Color     core.Vec3
	Intensity float64 // Always >= 0
}

// NewPointLight creates a point light, flooring negative intensities to zero
func NewPointLight(position, color core.Vec3, intensity float64) PointLight {
	return PointLight{
		Position:  position,
		Color:     color,
		Intensity: max(0, intensity),
	}
}

// Sample returns the direction, distance and emission of the light from point.
// A light located exactly at point reports zero distance and zero direction.
func (l PointLight) Sample(point core.Vec3) LightSample {
	toLight := l.Position.Subtract(point)
	distance := toLight.Length()
	var direction core.Vec3
	if distance > 0 {
		direction = toLight.Multiply(1.0 / distance)
	}

	return LightSample{
		Direction: direction,
		Distance:  distance,
		Emission:  l.Color.Multiply(l.Intensity),
	}
}
