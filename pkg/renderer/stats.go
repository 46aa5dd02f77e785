package renderer

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of primary samples taken
	AverageSamples  float64       // Average samples per pixel
	NumTiles        int           // Tiles the image was split into
	NumWorkers      int           // Workers that rendered the tiles
	MeanLuminance   float64       // Mean pixel luminance
	LuminanceStdDev float64       // Standard deviation of pixel luminance
	Duration        time.Duration // Wall-clock render time
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// computeRenderStats summarizes sample counts and pixel luminance
func computeRenderStats(pixelStats [][]PixelStats) RenderStats {
	var stats RenderStats
	var luminances []float64
	if len(pixelStats) > 0 {
		luminances = make([]float64, 0, len(pixelStats)*len(pixelStats[0]))
	}

	for y := range pixelStats {
		for x := range pixelStats[y] {
			pixel := &pixelStats[y][x]
			stats.TotalPixels++
			stats.TotalSamples += pixel.SampleCount
			luminances = append(luminances, pixel.GetColor().Luminance())
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	stats.MeanLuminance, stats.LuminanceStdDev = LuminanceStats(luminances)

	return stats
}

// LuminanceStats returns the mean and sample standard deviation of values.
// Fewer than two values have zero deviation.
func LuminanceStats(values []float64) (mean, stdDev float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
