package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// intensity is the range linear color components are clamped to before quantization
var intensity = core.NewInterval(0.000, 0.999)

// linearToGamma applies gamma 2; negative and NaN components become 0
func linearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// Vec3ToColor converts a linear color to 8-bit RGBA with gamma correction
func Vec3ToColor(c core.Vec3) color.RGBA {
	r := linearToGamma(c.X)
	g := linearToGamma(c.Y)
	b := linearToGamma(c.Z)

	return color.RGBA{
		R: uint8(256 * intensity.Clamp(r)),
		G: uint8(256 * intensity.Clamp(g)),
		B: uint8(256 * intensity.Clamp(b)),
		A: 255,
	}
}

// newFramebuffer creates an opaque black RGBA image
func newFramebuffer(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// cloneImage returns a deep copy of img
func cloneImage(img *image.RGBA) *image.RGBA {
	clone := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(clone.Pix, img.Pix)
	return clone
}
