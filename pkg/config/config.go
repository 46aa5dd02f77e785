// Package config loads render settings from flags, RAYTRACER_* environment
// variables and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/integrator"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. RAYTRACER_WIDTH
const EnvPrefix = "RAYTRACER"

// Config holds render settings. Zero sizes, samples and depth keep the
// scene's own values.
type Config struct {
	Scene     string  `mapstructure:"scene" yaml:"scene"`
	SceneFile string  `mapstructure:"scene_file" yaml:"scene_file"`
	ScenesDir string  `mapstructure:"scenes_dir" yaml:"scenes_dir"`
	Output    string  `mapstructure:"output" yaml:"output"`
	Width     int     `mapstructure:"width" yaml:"width"`
	Height    int     `mapstructure:"height" yaml:"height"`
	Samples   int     `mapstructure:"samples" yaml:"samples"` // Samples per axis
	Depth     int     `mapstructure:"depth" yaml:"depth"`
	Jitter    *bool   `mapstructure:"jitter" yaml:"jitter"` // nil keeps the scene's setting
	Workers   int     `mapstructure:"workers" yaml:"workers"`
	TileSize  int     `mapstructure:"tile_size" yaml:"tile_size"`
	Seed      int64   `mapstructure:"seed" yaml:"seed"`
	RowOrder  string  `mapstructure:"row_order" yaml:"row_order"`
	Gamma     float64 `mapstructure:"gamma" yaml:"gamma"`
}

// Default returns the default configuration
func Default() Config {
	options := renderer.DefaultOptions()
	return Config{
		Scene:     "default",
		ScenesDir: "scenes",
		Output:    "output/render.png",
		Workers:   options.NumWorkers,
		TileSize:  options.TileSize,
		Seed:      options.Seed,
		RowOrder:  options.RowOrder.String(),
		Gamma:     1,
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"scene":      "scene",
	"scene-file": "scene_file",
	"scenes-dir": "scenes_dir",
	"output":     "output",
	"width":      "width",
	"height":     "height",
	"samples":    "samples",
	"depth":      "depth",
	"jitter":     "jitter",
	"workers":    "workers",
	"tile-size":  "tile_size",
	"seed":       "seed",
	"row-order":  "row_order",
	"gamma":      "gamma",
}

// New creates a viper instance preloaded with defaults and environment bindings
func New() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("scene", d.Scene)
	v.SetDefault("scene_file", d.SceneFile)
	v.SetDefault("scenes_dir", d.ScenesDir)
	v.SetDefault("output", d.Output)
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("samples", d.Samples)
	v.SetDefault("depth", d.Depth)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("tile_size", d.TileSize)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("row_order", d.RowOrder)
	v.SetDefault("gamma", d.Gamma)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// No default, so AutomaticEnv alone would never see it
	_ = v.BindEnv("jitter")

	return v
}

// BindFlags binds every known flag present in flags to its config key
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configFile when given, or ./raytracer.yaml when present, and
// returns the validated configuration
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("raytracer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	// A bound flag always reports a value; only explicit settings count
	if !v.IsSet("jitter") {
		cfg.Jitter = nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem with the configuration, wrapped in ErrInvalidConfig
func (c *Config) Validate() error {
	var problems []error

	if c.SceneFile == "" && c.Scene == "" {
		problems = append(problems, errors.New("either scene or scene_file is required"))
	}
	if c.Output == "" {
		problems = append(problems, errors.New("output must not be empty"))
	}
	if c.Width < 0 || c.Height < 0 {
		problems = append(problems, fmt.Errorf("image size %dx%d must not be negative", c.Width, c.Height))
	}
	if c.Samples < 0 {
		problems = append(problems, fmt.Errorf("samples %d must not be negative", c.Samples))
	}
	if c.Depth < 0 || c.Depth > integrator.MaxSupportedDepth {
		problems = append(problems, fmt.Errorf("depth %d must be in [0, %d]", c.Depth, integrator.MaxSupportedDepth))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Errorf("workers %d must not be negative", c.Workers))
	}
	if c.TileSize < 0 {
		problems = append(problems, fmt.Errorf("tile_size %d must not be negative", c.TileSize))
	}
	if c.Gamma <= 0 {
		problems = append(problems, fmt.Errorf("gamma %g must be positive", c.Gamma))
	}
	if _, err := renderer.ParseRowOrder(c.RowOrder); err != nil {
		problems = append(problems, err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

// CameraOverride returns the camera fields the configuration sets
func (c *Config) CameraOverride() geometry.CameraConfig {
	return geometry.CameraConfig{Width: c.Width, Height: c.Height}
}

// ApplySampling overrides the sampling fields the configuration sets
func (c *Config) ApplySampling(sampling *scene.SamplingConfig) {
	if c.Samples > 0 {
		sampling.SamplesPerAxis = c.Samples
	}
	if c.Depth > 0 {
		sampling.MaxDepth = c.Depth
	}
	if c.Jitter != nil {
		sampling.Jitter = *c.Jitter
	}
}

// RenderOptions returns the renderer options. Call after Validate.
func (c *Config) RenderOptions() renderer.Options {
	rowOrder, _ := renderer.ParseRowOrder(c.RowOrder)
	return renderer.Options{
		TileSize:   c.TileSize,
		NumWorkers: c.Workers,
		RowOrder:   rowOrder,
		Seed:       c.Seed,
	}
}
