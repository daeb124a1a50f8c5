package renderer

import (
	"image"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// RenderStats contains statistics about one completed render
type RenderStats struct {
	Generation       uint64        // Render generation the stats belong to
	Width, Height    int           // Image size
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of camera samples taken
	SamplesPerPixel  int           // Samples taken for every pixel
	MaxDepth         int           // Path length cutoff used
	Chunks           int           // Number of chunks the image was divided into
	Workers          int           // Number of workers that rendered it
	StaleResults     int           // Results from superseded renders that were dropped
	Elapsed          time.Duration // Wall time from dispatch to the last pixel
	AverageLuminance float64       // Mean luminance of the gamma-corrected image
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}

// CalculateAverageLuminance returns the mean luminance of an 8-bit image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	const colorScale = 1.0 / 255.0
	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewVec3(float64(c.R), float64(c.G), float64(c.B)).Multiply(colorScale).Luminance()
		}
	}

	return total / float64(pixels)
}
