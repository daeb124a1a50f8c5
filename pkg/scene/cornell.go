package scene

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Cornell box dimensions (standard 555x555x555 units)
const boxSize = 555.0

func cornellCamera() CameraParams {
	camera := DefaultCameraParams()
	camera.SamplesPerPixel = 64
	camera.MaxDepth = 40
	camera.VFov = 40
	camera.LookFrom = core.NewVec3(278, 278, -800) // Outside the open side of the box
	camera.LookAt = core.NewVec3(278, 278, 0)
	camera.FocusDist = 10
	camera.Background = integrator.NewSolidBackground(core.NewVec3(0, 0, 0))
	return camera
}

// cornellWalls returns the five walls of the box; the side facing the camera is open
func cornellWalls() []geometry.Hittable {
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	return []geometry.Hittable{
		// Right wall (green) - YZ plane at x=boxSize
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
		// Left wall (red) - YZ plane at x=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red),
		// Floor - XZ plane at y=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), white),
		// Ceiling - XZ plane at y=boxSize
		geometry.NewQuad(core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(0, 0, -boxSize), core.NewVec3(-boxSize, 0, 0), white),
		// Back wall - XY plane at z=boxSize
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), white),
	}
}

// rotatedBlock creates a box with one corner at the origin, turned about Y and then moved into place
func rotatedBlock(size core.Vec3, angle float64, offset core.Vec3, mat material.Material) geometry.Hittable {
	var block geometry.Hittable = geometry.NewBox(core.NewVec3(0, 0, 0), size, mat)
	block = geometry.NewRotateY(block, angle)
	return geometry.NewTranslate(block, offset)
}

// buildCornellScene creates a Cornell box with a tall rotated block, a glass sphere and a ceiling light.
// Both the light and the glass sphere are sampled directly.
func buildCornellScene(opts Options, random *rand.Rand) (*Scene, error) {
	objects := cornellWalls()

	// Ceiling light facing down, slightly below the ceiling
	light := geometry.NewQuad(
		core.NewVec3(343, boxSize-1, 332),
		core.NewVec3(-130, 0, 0),
		core.NewVec3(0, 0, -105),
		material.NewDiffuseLight(core.NewVec3(15, 15, 15)),
	)

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	tall := rotatedBlock(core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), white)
	glass := geometry.NewSphere(core.NewVec3(190, 90, 190), 90, material.NewDielectric(1.5))

	objects = append(objects, light, tall, glass)
	lights := geometry.NewHittableList(light, glass)

	return newScene(objects, lights, cornellCamera()), nil
}

// buildCornellSmokeScene creates a Cornell box whose two blocks are filled with smoke and fog
func buildCornellSmokeScene(opts Options, random *rand.Rand) (*Scene, error) {
	objects := cornellWalls()

	light := geometry.NewQuad(
		core.NewVec3(113, boxSize-1, 127),
		core.NewVec3(330, 0, 0),
		core.NewVec3(0, 0, 305),
		material.NewDiffuseLight(core.NewVec3(7, 7, 7)),
	)

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	tall := rotatedBlock(core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), white)
	short := rotatedBlock(core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), white)

	objects = append(objects,
		light,
		geometry.NewConstantMedium(tall, 0.01, core.NewVec3(0, 0, 0)),
		geometry.NewConstantMedium(short, 0.01, core.NewVec3(1, 1, 1)),
	)

	camera := cornellCamera()
	camera.SamplesPerPixel = 100
	camera.MaxDepth = 50

	return newScene(objects, geometry.NewHittableList(light), camera), nil
}
