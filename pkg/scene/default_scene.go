package scene

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// buildDefaultScene creates a large diffuse ground sphere and a small mirror sphere
// seen from the default camera under a white-to-blue sky
func buildDefaultScene(opts Options, random *rand.Rand) (*Scene, error) {
	camera := DefaultCameraParams()
	camera.Background = integrator.NewGradientBackground(
		core.NewVec3(1.0, 1.0, 1.0), // horizon and below
		core.NewVec3(0.5, 0.7, 1.0), // zenith
	)

	ground := geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0)))
	mirror := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0))

	return newScene([]geometry.Hittable{ground, mirror}, nil, camera), nil
}

// buildTestScene creates metal and nested glass spheres on a small planet
func buildTestScene(opts Options, random *rand.Rand) (*Scene, error) {
	camera := DefaultCameraParams()
	camera.SamplesPerPixel = 20
	camera.MaxDepth = 15
	camera.VFov = 25
	camera.LookFrom = core.NewVec3(0, 2, -6)
	camera.LookAt = core.NewVec3(0, 0, 0)
	camera.DefocusAngle = 1
	camera.FocusDist = 6

	objects := []geometry.Hittable{
		geometry.NewSphere(core.NewVec3(0, -50.5, 0), 50, material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))),
		geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.5)),
		// Hollow glass: a thin shell made of an outer sphere and an inverted inner one
		geometry.NewSphere(core.NewVec3(0.7, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(0.7, 0, -1), 0.4, material.NewDielectric(1/1.5)),
		geometry.NewSphere(core.NewVec3(-0.9, -0.15, 0.2), 0.4, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0)),
		geometry.NewSphere(core.NewVec3(-0.3, 0.5, -1), 0.2, material.NewDielectric(1.5)),
	}

	return newScene(objects, nil, camera), nil
}
