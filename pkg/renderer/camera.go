package renderer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Camera generates rays for pixels of a fixed-size image.
// All derived fields are recomputed by Init and never change during a render.
type Camera struct {
	params scene.CameraParams
	width  int
	height int

	center       core.Vec3 // Ray origin for a pinhole camera
	pixel00      core.Vec3 // Center of the top-left pixel
	pixelDeltaU  core.Vec3 // One pixel to the right
	pixelDeltaV  core.Vec3 // One pixel down
	u, v, w      core.Vec3 // Camera basis: right, up, backwards
	defocusDiskU core.Vec3
	defocusDiskV core.Vec3

	sqrtSpp      int     // Side of the stratified sample grid
	recipSqrtSpp float64 // Size of one stratum in pixel units
}

// NewCamera creates a camera for an image of the given size
func NewCamera(params scene.CameraParams, width, height int) (*Camera, error) {
	c := &Camera{}
	if err := c.Init(params, width, height); err != nil {
		return nil, err
	}
	return c, nil
}

// Init validates params and derives the viewport from them.
// On error the camera keeps its previous state.
func (c *Camera) Init(params scene.CameraParams, width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid camera parameters: %w", err)
	}

	c.params = params
	c.width = width
	c.height = height
	c.center = params.LookFrom

	theta := core.DegreesToRadians(params.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * params.FocusDist
	viewportWidth := viewportHeight * (float64(width) / float64(height))

	c.w = params.LookFrom.Subtract(params.LookAt).Normalize()
	c.u = params.VUp.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	// Image rows run top to bottom, so V points down the viewport
	viewportU := c.u.Multiply(viewportWidth)
	viewportV := c.v.Multiply(-viewportHeight)

	c.pixelDeltaU = viewportU.Multiply(1 / float64(width))
	c.pixelDeltaV = viewportV.Multiply(1 / float64(height))

	viewportUpperLeft := c.center.
		Subtract(c.w.Multiply(params.FocusDist)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	c.pixel00 = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Multiply(0.5))

	defocusRadius := params.FocusDist * math.Tan(core.DegreesToRadians(params.DefocusAngle/2))
	c.defocusDiskU = c.u.Multiply(defocusRadius)
	c.defocusDiskV = c.v.Multiply(defocusRadius)

	c.sqrtSpp = int(math.Sqrt(float64(params.SamplesPerPixel)))
	c.recipSqrtSpp = 1 / float64(c.sqrtSpp)

	return nil
}

// Params returns the parameters the camera was last initialized with
func (c *Camera) Params() scene.CameraParams {
	return c.params
}

// Size returns the image size in pixels
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

// GetRay returns a ray through pixel (x, y) at the given offset from the pixel center,
// with offsets in pixel units in [-0.5, 0.5)
func (c *Camera) GetRay(x, y int, offsetX, offsetY float64, random *rand.Rand) core.Ray {
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(x) + offsetX)).
		Add(c.pixelDeltaV.Multiply(float64(y) + offsetY))

	origin := c.center
	if c.params.DefocusAngle > 0 {
		origin = c.defocusDiskSample(random)
	}

	return core.NewRayAtTime(origin, pixelSample.Subtract(origin), random.Float64())
}

// defocusDiskSample returns a random point on the lens
func (c *Camera) defocusDiskSample(random *rand.Rand) core.Vec3 {
	p := core.RandomInUnitDisk(random)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}

// stratifiedOffset returns a jittered offset inside stratum (si, sj) of the pixel
func (c *Camera) stratifiedOffset(si, sj int, random *rand.Rand) (float64, float64) {
	ox := (float64(si)+random.Float64())*c.recipSqrtSpp - 0.5
	oy := (float64(sj)+random.Float64())*c.recipSqrtSpp - 0.5
	return ox, oy
}

// RenderPixel estimates the linear radiance of pixel (x, y) as the mean of SamplesPerPixel paths.
// The first sqrt(spp)² samples are stratified over the pixel; any remainder is jittered uniformly.
func (c *Camera) RenderPixel(x, y int, integ integrator.Integrator, random *rand.Rand) core.Vec3 {
	spp := c.params.SamplesPerPixel
	depth := c.params.MaxDepth
	var sum core.Vec3

	for sj := 0; sj < c.sqrtSpp; sj++ {
		for si := 0; si < c.sqrtSpp; si++ {
			ox, oy := c.stratifiedOffset(si, sj, random)
			sum = sum.Add(integ.RayColor(c.GetRay(x, y, ox, oy, random), depth, random))
		}
	}

	for s := c.sqrtSpp * c.sqrtSpp; s < spp; s++ {
		ox, oy := random.Float64()-0.5, random.Float64()-0.5
		sum = sum.Add(integ.RayColor(c.GetRay(x, y, ox, oy, random), depth, random))
	}

	return sum.Multiply(1 / float64(spp))
}
