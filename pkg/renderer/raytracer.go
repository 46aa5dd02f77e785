package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/integrator"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// RowOrder selects how camera rows map onto framebuffer rows
type RowOrder int

const (
	// RowOrderTopDown writes camera row 0 (the top of the image plane) to framebuffer row 0
	RowOrderTopDown RowOrder = iota
	// RowOrderBottomUp writes camera row 0 to the last framebuffer row
	RowOrderBottomUp
)

// String returns the flag spelling of the row order
func (o RowOrder) String() string {
	switch o {
	case RowOrderTopDown:
		return "top-down"
	case RowOrderBottomUp:
		return "bottom-up"
	default:
		return fmt.Sprintf("RowOrder(%d)", int(o))
	}
}

// ParseRowOrder parses "top-down" or "bottom-up"
func ParseRowOrder(s string) (RowOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "top-down", "topdown":
		return RowOrderTopDown, nil
	case "bottom-up", "bottomup":
		return RowOrderBottomUp, nil
	default:
		return RowOrderTopDown, fmt.Errorf("unknown row order %q (want top-down or bottom-up)", s)
	}
}

// Options configures parallel rendering
type Options struct {
	TileSize   int      // Size of each square tile in pixels
	NumWorkers int      // Number of parallel workers (0 = use CPU count)
	RowOrder   RowOrder // Framebuffer row orientation
	Seed       int64    // Base seed; tile i draws from Seed+i
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		TileSize:   32,
		NumWorkers: 0,
		RowOrder:   RowOrderTopDown,
		Seed:       42,
	}
}

// Raytracer drives the pixel sampler over a scene
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     scene.SamplingConfig
	options    Options
	logger     core.Logger
}

// NewRaytracer creates a raytracer for s using the recursive ray tracing integrator
func NewRaytracer(s *scene.Scene, options Options, logger core.Logger) *Raytracer {
	return NewRaytracerWithIntegrator(s, integrator.NewRayTracingIntegrator(s), options, logger)
}

// NewRaytracerWithIntegrator creates a raytracer that computes ray colors with integratorInst
func NewRaytracerWithIntegrator(s *scene.Scene, integratorInst integrator.Integrator, options Options, logger core.Logger) *Raytracer {
	defaults := DefaultOptions()
	if options.TileSize <= 0 {
		options.TileSize = defaults.TileSize
	}
	if options.NumWorkers <= 0 {
		options.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	config := s.SamplingConfig
	if config.SamplesPerAxis <= 0 {
		config.SamplesPerAxis = 1
	}
	width, height := s.Camera.GetResolution()

	return &Raytracer{
		scene:      s,
		integrator: integratorInst,
		width:      width,
		height:     height,
		config:     config,
		options:    options,
		logger:     logger,
	}
}

// GetResolution returns the output size in pixels
func (rt *Raytracer) GetResolution() (width, height int) {
	return rt.width, rt.height
}

// SamplePixel averages N×N stratified samples over pixel (x, y), N being
// SamplesPerAxis. Cell (p, q) is sampled at (x + (p+jx)/N, y + (q+jy)/N) with
// jitter drawn from random, or zero jitter when jittering is disabled. Every
// sample is clamped to [0,1] before averaging.
func (rt *Raytracer) SamplePixel(x, y int, random *rand.Rand) core.Vec3 {
	var ps PixelStats
	rt.samplePixel(x, y, random, &ps)
	return ps.GetColor()
}

// samplePixel accumulates the stratified samples of pixel (x, y) into ps
func (rt *Raytracer) samplePixel(x, y int, random *rand.Rand, ps *PixelStats) {
	camera := rt.scene.Camera
	n := rt.config.SamplesPerAxis
	cell := 1.0 / float64(n)

	for q := 0; q < n; q++ {
		for p := 0; p < n; p++ {
			jx, jy := 0.0, 0.0
			if rt.config.Jitter {
				jx, jy = core.Jitter2D(random)
			}

			px := float64(x) + (float64(p)+jx)*cell
			py := float64(y) + (float64(q)+jy)*cell
			ray := camera.GetRay(px, py)

			ps.AddSample(rt.integrator.RayColor(ray, random).Clamp(0, 1))
		}
	}
}

// TracePixel traces the single ray through the corner of pixel (x, y)
func (rt *Raytracer) TracePixel(x, y int, random *rand.Rand) core.Vec3 {
	ray := rt.scene.Camera.GetPixelRay(x, y)
	return rt.integrator.RayColor(ray, random).Clamp(0, 1)
}

// RenderBounds samples every pixel inside bounds into pixelStats, which is
// indexed by camera coordinates [y][x]
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand) {
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixelStats[y][x] = PixelStats{}
			rt.samplePixel(x, y, random, &pixelStats[y][x])
		}
	}
}

// Render renders the whole image in parallel tiles and hands every pixel to fb.
// Framebuffer writes happen on the calling goroutine once all tiles finish.
func (rt *Raytracer) Render(ctx context.Context, fb Framebuffer) (RenderStats, error) {
	if err := ctx.Err(); err != nil {
		return RenderStats{}, err
	}

	startTime := time.Now()
	tiles := NewTileGrid(rt.width, rt.height, rt.options.TileSize, rt.options.Seed)

	// Shared pixel statistics; tiles cover disjoint pixels
	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	pool := NewWorkerPool(rt.options.NumWorkers)
	rt.logger.Printf("Rendering %dx%d, %d shapes, %d samples per pixel, max depth %d (%d tiles, %d workers)",
		rt.width, rt.height, rt.scene.GetPrimitiveCount(), rt.config.SamplesPerAxis*rt.config.SamplesPerAxis,
		rt.config.MaxDepth, len(tiles), pool.GetNumWorkers())

	err := pool.Run(ctx, tiles, func(tile *Tile) {
		rt.RenderBounds(tile.Bounds, pixelStats, tile.Random)
	})
	if err != nil {
		rt.logger.Printf("Render aborted: %v", err)
		return RenderStats{}, err
	}

	rt.writeFramebuffer(fb, pixelStats)

	stats := computeRenderStats(pixelStats)
	stats.NumTiles = len(tiles)
	stats.NumWorkers = pool.GetNumWorkers()
	stats.Duration = time.Since(startTime)

	rt.logger.Printf("Render completed in %v (mean luminance %.4f, std-dev %.4f)",
		stats.Duration, stats.MeanLuminance, stats.LuminanceStdDev)

	return stats, nil
}

// RenderImage renders into a new image framebuffer with the given gamma
func (rt *Raytracer) RenderImage(ctx context.Context, gamma float64) (*image.RGBA, RenderStats, error) {
	fb := NewImageFramebuffer(rt.width, rt.height, gamma)
	stats, err := rt.Render(ctx, fb)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return fb.Image(), stats, nil
}

// writeFramebuffer copies pixel colors into fb following the configured row order
func (rt *Raytracer) writeFramebuffer(fb Framebuffer, pixelStats [][]PixelStats) {
	for y := 0; y < rt.height; y++ {
		row := y
		if rt.options.RowOrder == RowOrderBottomUp {
			row = rt.height - 1 - y
		}
		for x := 0; x < rt.width; x++ {
			fb.SetPixel(x, row, pixelStats[y][x].GetColor())
		}
	}
}
