package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/df07/go-recursive-raytracer/pkg/config"
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/loaders"
	"github.com/df07/go-recursive-raytracer/pkg/renderer"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
	"github.com/df07/go-recursive-raytracer/web/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, core.NewDefaultLogger()).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Listings go to out, progress to logger.
func newRootCmd(out io.Writer, logger core.Logger) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "raytracer",
		Short:        "Recursive ray tracer",
		Long:         "A recursive Whitted-style ray tracer that renders built-in or YAML-described scenes to PNG.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./raytracer.yaml)")

	rootCmd.AddCommand(
		renderCmd(&cfgFile, logger),
		scenesCmd(&cfgFile, out),
		serveCmd(&cfgFile, logger),
	)
	return rootCmd
}

func renderCmd(cfgFile *string, logger core.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, logger)
		},
	}

	d := config.Default()
	flags := cmd.Flags()
	flags.String("scene", d.Scene, "built-in scene name or file:<name> from the scenes directory")
	flags.String("scene-file", d.SceneFile, "YAML scene description (overrides --scene)")
	flags.String("scenes-dir", d.ScenesDir, "directory searched for file: scenes")
	flags.StringP("output", "o", d.Output, "output PNG path")
	flags.Int("width", d.Width, "image width in pixels (0 keeps the scene's)")
	flags.Int("height", d.Height, "image height in pixels (0 keeps the scene's)")
	flags.Int("samples", d.Samples, "samples per pixel axis, N gives N×N samples (0 keeps the scene's)")
	flags.Int("depth", d.Depth, "maximum recursion depth (0 keeps the scene's)")
	flags.Bool("jitter", true, "jitter samples inside their grid cells (unset keeps the scene's)")
	flags.Int("workers", d.Workers, "parallel workers (0 = CPU count)")
	flags.Int("tile-size", d.TileSize, "tile edge in pixels")
	flags.Int64("seed", d.Seed, "base random seed")
	flags.String("row-order", d.RowOrder, "framebuffer row order: top-down or bottom-up")
	flags.Float64("gamma", d.Gamma, "output gamma (1 stores linear values)")

	return cmd
}

func scenesCmd(cfgFile *string, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}

			groups, err := scene.ListAllScenes(cfg.ScenesDir)
			if err != nil {
				return err
			}
			for _, group := range groups {
				fmt.Fprintf(out, "%s:\n", group.Name)
				for _, info := range group.Scenes {
					fmt.Fprintf(out, "  %-20s %s\n", info.ID, info.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("scenes-dir", config.Default().ScenesDir, "directory searched for scene files")
	return cmd
}

func serveCmd(cfgFile *string, logger core.Logger) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders and pixel inspection over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			return server.NewServer(cfg.ScenesDir, logger).Start(cmd.Context(), fmt.Sprintf(":%d", port))
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().String("scenes-dir", config.Default().ScenesDir, "directory searched for file: scenes")
	return cmd
}

// loadConfig merges defaults, config file, environment and the command's flags
func loadConfig(cmd *cobra.Command, cfgFile string) (*config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v, cfgFile)
}

// createScene resolves the configured scene and applies size and sampling overrides
func createScene(cfg *config.Config, logger core.Logger) (*scene.Scene, error) {
	override := cfg.CameraOverride()

	var s *scene.Scene
	var err error
	if cfg.SceneFile != "" {
		s, err = loaders.LoadSceneFile(cfg.SceneFile, logger, override)
	} else {
		s, err = loaders.LoadScene(cfg.Scene, cfg.ScenesDir, logger, override)
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplySampling(&s.SamplingConfig)
	return s, nil
}

func runRender(ctx context.Context, cfg *config.Config, logger core.Logger) error {
	s, err := createScene(cfg, logger)
	if err != nil {
		return err
	}

	rt := renderer.NewRaytracer(s, cfg.RenderOptions(), logger)
	width, height := rt.GetResolution()
	fb := renderer.NewImageFramebuffer(width, height, cfg.Gamma)

	stats, err := rt.Render(ctx, fb)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := fb.SavePNG(cfg.Output); err != nil {
		return err
	}

	logger.Printf("Render saved as %s (%d samples over %d pixels in %v)",
		cfg.Output, stats.TotalSamples, stats.TotalPixels, stats.Duration)
	return nil
}
