package scene

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// buildQuadsScene creates five colored quads forming an open box around the view axis
func buildQuadsScene(opts Options, random *rand.Rand) (*Scene, error) {
	camera := DefaultCameraParams()
	camera.VFov = 80
	camera.LookFrom = core.NewVec3(0, 0, 9)
	camera.LookAt = core.NewVec3(0, 0, 0)
	camera.FocusDist = 9

	leftRed := material.NewLambertian(core.NewVec3(1.0, 0.2, 0.2))
	backGreen := material.NewLambertian(core.NewVec3(0.2, 1.0, 0.2))
	rightBlue := material.NewLambertian(core.NewVec3(0.2, 0.2, 1.0))
	upperOrange := material.NewLambertian(core.NewVec3(1.0, 0.5, 0.0))
	lowerTeal := material.NewLambertian(core.NewVec3(0.2, 0.8, 0.8))

	objects := []geometry.Hittable{
		geometry.NewQuad(core.NewVec3(-3, -2, 5), core.NewVec3(0, 0, -4), core.NewVec3(0, 4, 0), leftRed),
		geometry.NewQuad(core.NewVec3(-2, -2, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), backGreen),
		geometry.NewQuad(core.NewVec3(3, -2, 1), core.NewVec3(0, 0, 4), core.NewVec3(0, 4, 0), rightBlue),
		geometry.NewQuad(core.NewVec3(-2, 3, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), upperOrange),
		geometry.NewQuad(core.NewVec3(-2, -3, 5), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, -4), lowerTeal),
	}

	return newScene(objects, nil, camera), nil
}

// buildDarkScene creates noise and marble textured objects lit only by an emissive sphere and quad
func buildDarkScene(opts Options, random *rand.Rand) (*Scene, error) {
	camera := DefaultCameraParams()
	camera.SamplesPerPixel = 50
	camera.MaxDepth = 20
	camera.VFov = 20
	camera.LookFrom = core.NewVec3(26, 3, 6)
	camera.LookAt = core.NewVec3(0, 2, 0)
	camera.FocusDist = 10
	camera.Background = integrator.NewSolidBackground(core.NewVec3(0, 0, 0))

	marble := material.NewTexturedLambertian(material.NewMarbleTexture(4, random))
	noise := material.NewTexturedLambertian(material.NewNoiseTexture(4, random))

	lamp := geometry.NewSphere(core.NewVec3(0, 7, 0), 2, material.NewDiffuseLight(core.NewVec3(4, 4, 4)))
	panel := geometry.NewQuad(
		core.NewVec3(3, 1, -2),
		core.NewVec3(2, 0, 0),
		core.NewVec3(0, 2, 0),
		material.NewDiffuseLight(core.NewVec3(4, 4, 4)),
	)

	objects := []geometry.Hittable{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, noise),
		lamp,
		panel,
	}

	return newScene(objects, geometry.NewHittableList(lamp, panel), camera), nil
}
