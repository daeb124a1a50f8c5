package material

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// ImageData holds decoded 8-bit RGBA pixels in row-major order, top row first
type ImageData struct {
	Width  int
	Height int
	Pixels []uint8 // len == Width*Height*4
}

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Image *ImageData
}

// NewImageTexture creates a new image texture
func NewImageTexture(image *ImageData) *ImageTexture {
	return &ImageTexture{Image: image}
}

// debugColor is returned when there is no image to sample
var debugColor = core.NewVec3(0, 1, 1)

// Value samples the texture at the given UV coordinates using nearest-neighbor filtering.
// UVs are clamped to [0, 1]; V=0 is the bottom row of the image.
func (t *ImageTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	img := t.Image
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pixels) < img.Width*img.Height*4 {
		return debugColor
	}

	unit := core.NewInterval(0, 1)
	u = unit.Clamp(u)
	v = 1.0 - unit.Clamp(v) // Flip V to image coordinates

	x := int(u * float64(img.Width))
	y := int(v * float64(img.Height))
	if x >= img.Width {
		x = img.Width - 1
	}
	if y >= img.Height {
		y = img.Height - 1
	}

	const colorScale = 1.0 / 255.0
	i := (y*img.Width + x) * 4
	return core.NewVec3(
		float64(img.Pixels[i])*colorScale,
		float64(img.Pixels[i+1])*colorScale,
		float64(img.Pixels[i+2])*colorScale,
	)
}
