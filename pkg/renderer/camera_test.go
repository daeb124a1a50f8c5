package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// countingIntegrator returns a constant color and records every ray it is given
type countingIntegrator struct {
	color core.Vec3
	rays  []core.Ray
}

func (c *countingIntegrator) RayColor(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	c.rays = append(c.rays, ray)
	return c.color
}

func vecClose(a, b core.Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestCamera_Basis(t *testing.T) {
	camera, err := NewCamera(scene.DefaultCameraParams(), 400, 225)
	if err != nil {
		t.Fatal(err)
	}

	if !vecClose(camera.w, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected w=(0,0,1) pointing away from the view, got %v", camera.w)
	}
	if !vecClose(camera.u, core.NewVec3(1, 0, 0), 1e-12) || !vecClose(camera.v, core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected u=(1,0,0) v=(0,1,0), got u=%v v=%v", camera.u, camera.v)
	}
	if w, h := camera.Size(); w != 400 || h != 225 {
		t.Errorf("Expected size 400x225, got %dx%d", w, h)
	}
}

func TestCamera_GetRayCorners(t *testing.T) {
	camera, err := NewCamera(scene.DefaultCameraParams(), 400, 225)
	if err != nil {
		t.Fatal(err)
	}
	random := rand.New(rand.NewSource(42))

	// vFov 90 at focus distance 1 gives a viewport 2 units high
	halfWidth := 400.0 / 225.0
	tests := []struct {
		name      string
		x, y      int
		ox, oy    float64
		direction core.Vec3
	}{
		{"image center", 200, 112, -0.5, 0, core.NewVec3(0, 0, -1)},
		{"top-left corner", 0, 0, -0.5, -0.5, core.NewVec3(-halfWidth, 1, -1)},
		{"bottom-right corner", 399, 224, 0.5, 0.5, core.NewVec3(halfWidth, -1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.x, tt.y, tt.ox, tt.oy, random)
			if ray.Origin != (core.Vec3{}) {
				t.Errorf("Pinhole ray should start at the origin, got %v", ray.Origin)
			}
			if !vecClose(ray.Direction, tt.direction, 1e-9) {
				t.Errorf("Expected direction %v, got %v", tt.direction, ray.Direction)
			}
			if ray.Time < 0 || ray.Time >= 1 {
				t.Errorf("Ray time %f outside [0, 1)", ray.Time)
			}
		})
	}
}

func TestCamera_InitRejectsInvalid(t *testing.T) {
	camera, err := NewCamera(scene.DefaultCameraParams(), 100, 50)
	if err != nil {
		t.Fatal(err)
	}

	if err := camera.Init(scene.DefaultCameraParams(), 0, 50); err == nil {
		t.Error("Expected error for zero width")
	}

	bad := scene.DefaultCameraParams()
	bad.LookAt = bad.LookFrom
	if err := camera.Init(bad, 100, 50); err == nil {
		t.Error("Expected error when lookFrom equals lookAt")
	}

	// Failed Init keeps the previous state
	if w, h := camera.Size(); w != 100 || h != 50 {
		t.Errorf("Expected size to stay 100x50, got %dx%d", w, h)
	}
	if camera.Params().LookAt == camera.Params().LookFrom {
		t.Error("Failed Init replaced the parameters")
	}
}

func TestCamera_DefocusFocusesOnPlane(t *testing.T) {
	params := scene.DefaultCameraParams()
	params.DefocusAngle = 10
	params.FocusDist = 4
	camera, err := NewCamera(params, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	random := rand.New(rand.NewSource(42))

	radius := params.FocusDist * math.Tan(core.DegreesToRadians(params.DefocusAngle/2))
	first := camera.GetRay(10, 20, 0, 0, random)
	target := first.Origin.Add(first.Direction)
	moved := false

	for i := 0; i < 1000; i++ {
		ray := camera.GetRay(10, 20, 0, 0, random)
		if ray.Origin.Length() > radius+1e-9 {
			t.Fatalf("Lens sample %v outside defocus radius %f", ray.Origin, radius)
		}
		if math.Abs(ray.Origin.Z) > 1e-12 {
			t.Fatalf("Lens sample %v is not on the lens plane", ray.Origin)
		}
		if ray.Origin != first.Origin {
			moved = true
		}
		// Every ray for the same pixel point passes through the same point on the focus plane
		if !vecClose(ray.Origin.Add(ray.Direction), target, 1e-9) {
			t.Fatalf("Ray misses the focus point %v", target)
		}
	}
	if !moved {
		t.Error("Expected lens samples to vary")
	}
}

func TestCamera_RenderPixelSampleCount(t *testing.T) {
	for _, spp := range []int{1, 2, 4, 5, 10, 16} {
		params := scene.DefaultCameraParams()
		params.SamplesPerPixel = spp
		camera, err := NewCamera(params, 32, 32)
		if err != nil {
			t.Fatal(err)
		}

		integ := &countingIntegrator{color: core.NewVec3(0.25, 0.5, 1)}
		color := camera.RenderPixel(3, 4, integ, rand.New(rand.NewSource(42)))

		if len(integ.rays) != spp {
			t.Errorf("spp %d: traced %d rays", spp, len(integ.rays))
		}
		if !vecClose(color, integ.color, 1e-12) {
			t.Errorf("spp %d: expected mean %v, got %v", spp, integ.color, color)
		}
	}
}

func TestCamera_StratifiedOffsets(t *testing.T) {
	params := scene.DefaultCameraParams()
	params.SamplesPerPixel = 9
	camera, err := NewCamera(params, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	random := rand.New(rand.NewSource(42))

	for sj := 0; sj < 3; sj++ {
		for si := 0; si < 3; si++ {
			for i := 0; i < 100; i++ {
				ox, oy := camera.stratifiedOffset(si, sj, random)
				minX, minY := float64(si)/3-0.5, float64(sj)/3-0.5
				if ox < minX || ox >= minX+1.0/3 || oy < minY || oy >= minY+1.0/3 {
					t.Fatalf("Offset (%f, %f) outside stratum (%d, %d)", ox, oy, si, sj)
				}
			}
		}
	}
}

func TestCamera_RenderPixelDeterministic(t *testing.T) {
	s, err := scene.Build("default", scene.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	params := s.Camera
	params.SamplesPerPixel = 8
	camera, err := NewCamera(params, 32, 18)
	if err != nil {
		t.Fatal(err)
	}
	pool := NewWorkerPool(1, 7, nil)
	worker := pool.workers[0]
	worker.initScene(InitScene{Scene: s, Params: params, Width: 32, Height: 18})

	a := worker.renderPixel(16, 9)
	b := worker.renderPixel(16, 9)
	if a != b {
		t.Errorf("Same pixel rendered twice gave %v and %v", a, b)
	}

	// Same camera and seed outside a worker gives the same color
	random := rand.New(rand.NewSource(pixelSeed(7, 16, 9)))
	direct := camera.RenderPixel(16, 9, worker.integrator, random)
	if direct != a {
		t.Errorf("Expected %v, got %v", a, direct)
	}
}
