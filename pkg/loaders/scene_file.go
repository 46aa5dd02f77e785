package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// ErrInvalidScene is returned when a scene description cannot be turned into a scene
var ErrInvalidScene = errors.New("invalid scene description")

// Vec is a three-component YAML vector written as [x, y, z]
type Vec core.Vec3

// UnmarshalYAML accepts a flow or block sequence of exactly three numbers
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	var values []float64
	if node.Kind != yaml.SequenceNode || len(node.Content) != 3 {
		return fmt.Errorf("line %d: expected a vector [x, y, z]", node.Line)
	}
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("line %d: vector components must be numbers", node.Line)
	}
	*v = Vec(core.NewVec3(values[0], values[1], values[2]))
	return nil
}

// Vec3 converts to a core vector
func (v *Vec) Vec3() core.Vec3 {
	if v == nil {
		return core.Vec3{}
	}
	return core.Vec3(*v)
}

// SceneFile is the YAML scene description
type SceneFile struct {
	Camera     CameraSpec              `yaml:"camera"`
	Background *BackgroundSpec         `yaml:"background"`
	Sampling   SamplingSpec            `yaml:"sampling"`
	Materials  map[string]MaterialSpec `yaml:"materials"`
	Shapes     []ShapeSpec             `yaml:"shapes"`
	Lights     []LightSpec             `yaml:"lights"`
}

// CameraSpec mirrors geometry.CameraConfig; omitted fields keep their defaults
type CameraSpec struct {
	Center      *Vec    `yaml:"center"`
	LookAt      *Vec    `yaml:"look_at"`
	Up          *Vec    `yaml:"up"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	VFov        float64 `yaml:"vfov"`
	FocalLength float64 `yaml:"focal_length"`
}

// BackgroundSpec sets the sky gradient
type BackgroundSpec struct {
	Top    *Vec `yaml:"top"`
	Bottom *Vec `yaml:"bottom"`
}

// SamplingSpec mirrors scene.SamplingConfig
type SamplingSpec struct {
	SamplesPerAxis int  `yaml:"samples_per_axis"`
	MaxDepth       int  `yaml:"max_depth"`
	Jitter         bool `yaml:"jitter"`
}

// MaterialSpec describes one named shader
type MaterialSpec struct {
	Type        string  `yaml:"type"`        // normal, lambertian, blinn_phong, mirror, diffuse
	Color       *Vec    `yaml:"color"`       // lambertian; omitted means the shape's color
	Diffuse     *Vec    `yaml:"diffuse"`     // blinn_phong
	Specular    *Vec    `yaml:"specular"`    // blinn_phong
	Shininess   float64 `yaml:"shininess"`   // blinn_phong
	Reflectance *Vec    `yaml:"reflectance"` // diffuse
}

// ShapeSpec describes one shape. Material names a MaterialSpec; an empty name
// leaves the shape without a shader.
type ShapeSpec struct {
	Type     string `yaml:"type"` // sphere, triangle, plane, mesh
	Material string `yaml:"material"`
	Color    *Vec   `yaml:"color"`

	Center *Vec    `yaml:"center"` // sphere
	Radius float64 `yaml:"radius"` // sphere

	Vertices []Vec `yaml:"vertices"` // triangle

	Point  *Vec `yaml:"point"`  // plane
	Normal *Vec `yaml:"normal"` // plane

	File   string   `yaml:"file"`   // mesh, relative to the scene file
	Offset *Vec     `yaml:"offset"` // mesh
	Scale  *float64 `yaml:"scale"`  // mesh, defaults to 1
}

// LightSpec describes a point light
type LightSpec struct {
	Position  *Vec     `yaml:"position"`
	Color     *Vec     `yaml:"color"`     // defaults to white
	Intensity *float64 `yaml:"intensity"` // defaults to 1
}

// ParseSceneFile decodes a YAML scene description. Unknown keys are errors.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var sf SceneFile
	if err := decoder.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return &sf, nil
}

// LoadSceneFile reads and builds the scene at path. Mesh files resolve
// relative to the scene file's directory.
func LoadSceneFile(path string, logger core.Logger, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := sf.Build(filepath.Dir(path), logger, cameraOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadScene resolves a scene ID: a built-in name, or "file:<name>" for a
// description in scenesDir
func LoadScene(id, scenesDir string, logger core.Logger, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if !strings.HasPrefix(id, "file:") {
		return scene.Create(id, cameraOverrides...)
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == id {
			return LoadSceneFile(info.FilePath, logger, cameraOverrides...)
		}
	}
	return nil, fmt.Errorf("%w: %q not found in %s", scene.ErrUnknownScene, id, scenesDir)
}

// Build creates the scene. baseDir resolves relative mesh paths.
func (sf *SceneFile) Build(baseDir string, logger core.Logger, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	cameraConfig := geometry.MergeCameraConfig(defaultCameraConfig(), sf.Camera.config())
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}
	if sf.Sampling.SamplesPerAxis < 0 || sf.Sampling.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: sampling values must not be negative", ErrInvalidScene)
	}

	s := scene.NewScene(cameraConfig, scene.SamplingConfig{
		SamplesPerAxis: sf.Sampling.SamplesPerAxis,
		MaxDepth:       sf.Sampling.MaxDepth,
		Jitter:         sf.Sampling.Jitter,
	})

	if sf.Background != nil {
		if sf.Background.Top != nil {
			s.TopColor = sf.Background.Top.Vec3()
		}
		if sf.Background.Bottom != nil {
			s.BottomColor = sf.Background.Bottom.Vec3()
		}
	}

	shaders := make(map[string]material.Shader, len(sf.Materials))
	for name, spec := range sf.Materials {
		shader, err := spec.build(cameraConfig.Center)
		if err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrInvalidScene, name, err)
		}
		shaders[name] = shader
	}

	for i, spec := range sf.Shapes {
		var shader material.Shader
		if spec.Material != "" {
			var ok bool
			if shader, ok = shaders[spec.Material]; !ok {
				return nil, fmt.Errorf("%w: shape %d: unknown material %q", ErrInvalidScene, i, spec.Material)
			}
		}

		shapes, err := spec.build(shader, baseDir, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: shape %d (%s): %v", ErrInvalidScene, i, spec.Type, err)
		}
		for _, shape := range shapes {
			s.AddShape(shape)
		}
	}

	for i, spec := range sf.Lights {
		if spec.Position == nil {
			return nil, fmt.Errorf("%w: light %d: missing position", ErrInvalidScene, i)
		}
		color := core.NewVec3(1, 1, 1)
		if spec.Color != nil {
			color = spec.Color.Vec3()
		}
		intensity := 1.0
		if spec.Intensity != nil {
			intensity = *spec.Intensity
		}
		s.AddPointLight(spec.Position.Vec3(), color, intensity)
	}

	logger.Printf("Loaded scene: %d shapes, %d lights, %d materials",
		len(s.Shapes), len(s.Lights), len(shaders))
	return s, nil
}

// defaultCameraConfig is used for camera fields a scene file leaves out
func defaultCameraConfig() geometry.CameraConfig {
	config := geometry.DefaultCameraConfig()
	config.Width = 400
	config.Height = 300
	return config
}

func (c CameraSpec) config() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      c.Center.Vec3(),
		LookAt:      c.LookAt.Vec3(),
		Up:          c.Up.Vec3(),
		Width:       c.Width,
		Height:      c.Height,
		VFov:        c.VFov,
		FocalLength: c.FocalLength,
	}
}

// build creates the shader; eye is the camera position used by Blinn-Phong
func (m MaterialSpec) build(eye core.Vec3) (material.Shader, error) {
	switch m.Type {
	case "normal":
		return material.NewNormal(), nil
	case "lambertian":
		if m.Color == nil {
			return material.NewShapeColorLambertian(), nil
		}
		return material.NewLambertian(m.Color.Vec3()), nil
	case "blinn_phong":
		if m.Diffuse == nil || m.Specular == nil {
			return nil, fmt.Errorf("blinn_phong needs diffuse and specular")
		}
		if m.Shininess <= 0 {
			return nil, fmt.Errorf("blinn_phong needs a positive shininess")
		}
		return material.NewBlinnPhong(m.Diffuse.Vec3(), m.Specular.Vec3(), m.Shininess, eye), nil
	case "mirror":
		return material.NewMirror(), nil
	case "diffuse":
		if m.Reflectance == nil {
			return nil, fmt.Errorf("diffuse needs reflectance")
		}
		return material.NewDiffuse(m.Reflectance.Vec3()), nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", m.Type)
	}
}

// build creates the shapes for one entry; meshes expand to many triangles
func (s ShapeSpec) build(shader material.Shader, baseDir string, logger core.Logger) ([]geometry.Shape, error) {
	color := s.Color.Vec3()

	switch s.Type {
	case "sphere":
		if s.Center == nil {
			return nil, fmt.Errorf("missing center")
		}
		if s.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive")
		}
		return []geometry.Shape{geometry.NewSphere(s.Center.Vec3(), s.Radius, color, shader)}, nil
	case "triangle":
		if len(s.Vertices) != 3 {
			return nil, fmt.Errorf("expected 3 vertices, got %d", len(s.Vertices))
		}
		v := s.Vertices
		return []geometry.Shape{geometry.NewTriangle(v[0].Vec3(), v[1].Vec3(), v[2].Vec3(), color, shader)}, nil
	case "plane":
		if s.Point == nil || s.Normal == nil {
			return nil, fmt.Errorf("plane needs point and normal")
		}
		if s.Normal.Vec3().NearZero() {
			return nil, fmt.Errorf("plane normal must be non-zero")
		}
		return []geometry.Shape{geometry.NewPlane(s.Point.Vec3(), s.Normal.Vec3(), color, shader)}, nil
	case "mesh":
		if s.File == "" {
			return nil, fmt.Errorf("mesh needs a file")
		}
		path := s.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		scale := 1.0
		if s.Scale != nil {
			scale = *s.Scale
		}

		startTime := time.Now()
		data, err := LoadPLY(path)
		if err != nil {
			return nil, err
		}
		logger.Printf("Loaded PLY mesh %s: %d vertices, %d triangles in %v",
			filepath.Base(path), len(data.Vertices), data.TriangleCount(), time.Since(startTime))
		return data.Triangles(s.Offset.Vec3(), scale, color, shader), nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", s.Type)
	}
}
