package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-recursive-raytracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Builder constructs a scene, applying the first camera override if given
type Builder func(cameraOverrides ...geometry.CameraConfig) *Scene

var builtins = map[string]Builder{
	"default":      NewDefaultScene,
	"cornell":      NewCornellScene,
	"spheregrid":   NewSphereGridScene,
	"trianglemesh": NewTriangleMeshScene,
	"shadows":      NewShadowScene,
	"normals":      NewNormalsScene,
}

// Names returns the registered built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named built-in scene
func Create(name string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	builder, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return builder(cameraOverrides...), nil
}
