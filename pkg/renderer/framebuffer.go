package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Framebuffer receives final pixel colors with channels in [0,1]
type Framebuffer interface {
	SetPixel(x, y int, color core.Vec3)
}

// ImageFramebuffer stores pixels in an 8-bit RGBA image
type ImageFramebuffer struct {
	img   *image.RGBA
	gamma float64
}

// NewImageFramebuffer creates a framebuffer of the given size. A gamma of 1
// or less stores colors unchanged.
func NewImageFramebuffer(width, height int, gamma float64) *ImageFramebuffer {
	return &ImageFramebuffer{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		gamma: gamma,
	}
}

// SetPixel stores c at (x, y); row 0 is the top row of the image
func (fb *ImageFramebuffer) SetPixel(x, y int, c core.Vec3) {
	fb.img.SetRGBA(x, y, vec3ToColor(c, fb.gamma))
}

// Image returns the underlying image
func (fb *ImageFramebuffer) Image() *image.RGBA {
	return fb.img
}

// WritePNG encodes the image as PNG
func (fb *ImageFramebuffer) WritePNG(w io.Writer) error {
	if err := png.Encode(w, fb.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the image to path, creating parent directories as needed
func (fb *ImageFramebuffer) SavePNG(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := fb.WritePNG(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// vec3ToColor converts a Vec3 color to RGBA with clamping and optional gamma correction
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	if gamma > 1 {
		colorVec = colorVec.GammaCorrect(gamma)
	}

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
