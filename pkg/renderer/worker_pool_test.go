package renderer

import (
	"testing"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

func TestPixelSeed(t *testing.T) {
	seeds := make(map[int64][2]int)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			s := pixelSeed(42, x, y)
			if prev, ok := seeds[s]; ok {
				t.Fatalf("Pixels (%d, %d) and (%d, %d) share seed %d", prev[0], prev[1], x, y, s)
			}
			seeds[s] = [2]int{x, y}
		}
	}

	if pixelSeed(42, 3, 5) != pixelSeed(42, 3, 5) {
		t.Error("pixelSeed is not deterministic")
	}
	if pixelSeed(42, 3, 5) == pixelSeed(43, 3, 5) {
		t.Error("Different base seeds gave the same pixel seed")
	}
}

func startTestPool(t *testing.T, workers int) (*WorkerPool, *scene.Scene) {
	t.Helper()

	s, err := scene.Build("default", scene.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	params := s.Camera
	params.SamplesPerPixel = 4

	pool := NewWorkerPool(workers, 42, nil)
	pool.Start()
	t.Cleanup(pool.Stop)
	pool.Broadcast(InitScene{Scene: s, Params: params, Width: 16, Height: 9})
	return pool, s
}

func receiveResult(t *testing.T, pool *WorkerPool) PixelResult {
	t.Helper()
	select {
	case result := <-pool.Results():
		return result
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for a pixel result")
	}
	return PixelResult{}
}

func TestWorkerPool_SamePixelAnyWorker(t *testing.T) {
	pool, _ := startTestPool(t, 3)

	var colors []core.Vec3
	for worker := 0; worker < pool.NumWorkers(); worker++ {
		pool.Post(worker, RenderPixel{Generation: 1, X: 8, Y: 6, Chunk: 0})
		result := receiveResult(t, pool)
		if result.Worker != worker || result.Generation != 1 || result.X != 8 || result.Y != 6 {
			t.Errorf("Unexpected result %+v from worker %d", result, worker)
		}
		colors = append(colors, result.Color)
	}

	for i := 1; i < len(colors); i++ {
		if colors[i] != colors[0] {
			t.Errorf("Worker %d rendered %v, worker 0 rendered %v", i, colors[i], colors[0])
		}
	}
}

func TestWorkerPool_ApplySettingsInOrder(t *testing.T) {
	pool, _ := startTestPool(t, 1)

	pool.Post(0, RenderPixel{Generation: 1, X: 8, Y: 2})
	before := receiveResult(t, pool).Color

	// A black solid background is posted ahead of the next pixel and must be seen by it
	background := integrator.NewSolidBackground(core.Vec3{})
	pool.Post(0, ApplySettings{Settings: scene.Settings{Background: &background}})
	pool.Post(0, RenderPixel{Generation: 2, X: 8, Y: 2})
	after := receiveResult(t, pool)

	if after.Generation != 2 {
		t.Fatalf("Expected generation 2, got %d", after.Generation)
	}
	if after.Color == before {
		t.Error("Settings were not applied before the following pixel")
	}
}

func TestWorker_RenderPixelWithoutScene(t *testing.T) {
	pool := NewWorkerPool(1, 42, nil)
	if color := pool.workers[0].renderPixel(0, 0); color != (core.Vec3{}) {
		t.Errorf("Expected black from an uninitialized worker, got %v", color)
	}
}

func TestWorker_InvalidSceneClearsState(t *testing.T) {
	s, err := scene.Build("default", scene.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	worker := NewWorkerPool(1, 42, nil).workers[0]
	worker.initScene(InitScene{Scene: s, Params: s.Camera, Width: 8, Height: 8})
	if worker.camera == nil {
		t.Fatal("Expected a camera after a valid InitScene")
	}

	worker.initScene(InitScene{Scene: s, Params: s.Camera, Width: 0, Height: 8})
	if worker.camera != nil || worker.integrator != nil {
		t.Error("Expected state to be cleared after an invalid InitScene")
	}
}
