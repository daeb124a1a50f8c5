package scene

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/loaders"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// uvDebugImage generates an image whose red channel follows U and green channel follows V,
// with a dark grid line every eighth of the image
func uvDebugImage(width, height int) *material.ImageData {
	pixels := make([]uint8, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			u := float64(x) / float64(width-1)
			v := 1 - float64(y)/float64(height-1) // Top row is v=1
			r, g, b := uint8(255*u), uint8(255*v), uint8(64)
			if x%(width/8) == 0 || y%(height/8) == 0 {
				r, g, b = 20, 20, 20
			}
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = r, g, b, 255
		}
	}
	return &material.ImageData{Width: width, Height: height, Pixels: pixels}
}

// buildTextureScene creates spheres showing image, marble and checker textures on a checker floor
func buildTextureScene(opts Options, random *rand.Rand) (*Scene, error) {
	camera := DefaultCameraParams()
	camera.SamplesPerPixel = 30
	camera.MaxDepth = 10
	camera.VFov = 30
	camera.LookFrom = core.NewVec3(0, 2, 9)
	camera.LookAt = core.NewVec3(0, 1, 0)
	camera.FocusDist = 9
	camera.Background = integrator.NewGradientBackground(core.NewVec3(1, 1, 1), core.NewVec3(0.5, 0.7, 1.0))

	image := uvDebugImage(256, 128)
	if opts.TexturePath != "" {
		loaded, err := loaders.LoadImage(opts.TexturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load texture: %w", err)
		}
		image = loaded
	}

	floor := material.NewTexturedLambertian(material.NewCheckerTexture(20,
		core.NewVec3(0.9, 0.9, 0.9),
		core.NewVec3(0.2, 0.3, 0.1),
	))
	imageMat := material.NewTexturedLambertian(material.NewImageTexture(image))
	marbleMat := material.NewTexturedLambertian(material.NewMarbleTexture(3, random))
	checkerMat := material.NewTexturedLambertian(material.NewCheckerTexture(8,
		core.NewVec3(0.9, 0.9, 0.9),
		core.NewVec3(0.2, 0.2, 0.8),
	))

	objects := []geometry.Hittable{
		NewGroundQuad(core.NewVec3(0, 0, 0), 40, floor),
		geometry.NewSphere(core.NewVec3(-2.2, 1, 0), 1, imageMat),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, marbleMat),
		geometry.NewSphere(core.NewVec3(2.2, 1, 0), 1, checkerMat),
	}

	return newScene(objects, nil, camera), nil
}
