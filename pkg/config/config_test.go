package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate, got %v", err)
	}
	if cfg.Scene != "default" || cfg.Seed != 42 || cfg.RowOrder != "top-down" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"valid scene file", func(c *Config) { c.Scene = ""; c.SceneFile = "scene.yaml" }, ""},
		{"max depth allowed", func(c *Config) { c.Depth = 512 }, ""},
		{"negative width", func(c *Config) { c.Width = -1 }, "image size"},
		{"negative height", func(c *Config) { c.Height = -10 }, "image size"},
		{"negative samples", func(c *Config) { c.Samples = -2 }, "samples"},
		{"depth too deep", func(c *Config) { c.Depth = 513 }, "depth"},
		{"negative depth", func(c *Config) { c.Depth = -1 }, "depth"},
		{"negative workers", func(c *Config) { c.Workers = -4 }, "workers"},
		{"negative tile size", func(c *Config) { c.TileSize = -1 }, "tile_size"},
		{"zero gamma", func(c *Config) { c.Gamma = 0 }, "gamma"},
		{"bad row order", func(c *Config) { c.RowOrder = "diagonal" }, "row order"},
		{"no scene", func(c *Config) { c.Scene = "" }, "scene"},
		{"no output", func(c *Config) { c.Output = "" }, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid config, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Width = -1
	cfg.Depth = 1000
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "image size") || !strings.Contains(err.Error(), "depth") {
		t.Errorf("Expected both problems reported, got %v", err)
	}
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	d := Default()
	flags.String("scene", d.Scene, "")
	flags.Int("width", d.Width, "")
	flags.Int("depth", d.Depth, "")
	flags.Bool("jitter", true, "")
	flags.String("row-order", d.RowOrder, "")
	return flags
}

func TestLoad_Precedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "raytracer.yaml")
	content := "scene: cornell\nwidth: 320\nheight: 240\nsamples: 3\nrow_order: bottom-up\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RAYTRACER_HEIGHT", "200")

	flags := newFlags()
	if err := flags.Parse([]string{"--width", "640"}); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := BindFlags(v, flags); err != nil {
		t.Fatalf("BindFlags() error: %v", err)
	}
	cfg, err := Load(v, configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Width != 640 {
		t.Errorf("Expected flag to win for width, got %d", cfg.Width)
	}
	if cfg.Height != 200 {
		t.Errorf("Expected environment to beat the config file for height, got %d", cfg.Height)
	}
	if cfg.Scene != "cornell" || cfg.Samples != 3 {
		t.Errorf("Expected config file values, got scene %q samples %d", cfg.Scene, cfg.Samples)
	}
	if cfg.RenderOptions().RowOrder != renderer.RowOrderBottomUp {
		t.Errorf("Expected bottom-up row order, got %v", cfg.RenderOptions().RowOrder)
	}
	if cfg.Jitter != nil {
		t.Errorf("Expected unset jitter to stay nil, got %v", *cfg.Jitter)
	}
	if cfg.Output != Default().Output {
		t.Errorf("Expected default output, got %q", cfg.Output)
	}
}

func TestLoad_JitterFlag(t *testing.T) {
	flags := newFlags()
	if err := flags.Parse([]string{"--jitter=false"}); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := BindFlags(v, flags); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v, filepath.Join(t.TempDir(), "empty.yaml"))
	if err == nil {
		t.Fatal("Expected error for a missing explicit config file")
	}

	v = New()
	if err := BindFlags(v, flags); err != nil {
		t.Fatal(err)
	}
	emptyConfig := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(emptyConfig, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(v, emptyConfig)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Jitter == nil || *cfg.Jitter {
		t.Errorf("Expected explicit jitter=false, got %v", cfg.Jitter)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("RAYTRACER_DEPTH", "600")

	configPath := filepath.Join(t.TempDir(), "raytracer.yaml")
	if err := os.WriteFile(configPath, []byte("scene: default\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(New(), configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for depth 600, got %v", err)
	}
}

func TestApplySampling(t *testing.T) {
	jitter := false
	cfg := Default()
	cfg.Samples = 4
	cfg.Jitter = &jitter

	sampling := scene.SamplingConfig{SamplesPerAxis: 2, MaxDepth: 7, Jitter: true}
	cfg.ApplySampling(&sampling)

	if sampling.SamplesPerAxis != 4 {
		t.Errorf("Expected samples override, got %d", sampling.SamplesPerAxis)
	}
	if sampling.MaxDepth != 7 {
		t.Errorf("Expected zero depth to keep the scene's 7, got %d", sampling.MaxDepth)
	}
	if sampling.Jitter {
		t.Error("Expected jitter override to false")
	}

	override := cfg.CameraOverride()
	if override.Width != 0 || override.Height != 0 {
		t.Errorf("Expected zero size to leave the camera alone, got %+v", override)
	}
}
