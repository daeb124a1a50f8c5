package renderer

import (
	"math/rand"
	"sync"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// Message is a unit of work or state change posted to a worker's inbox.
// Workers handle messages strictly in the order they were posted.
type Message interface {
	isMessage()
}

// InitScene replaces the worker's scene, camera parameters and image size
type InitScene struct {
	Scene  *scene.Scene
	Params scene.CameraParams
	Width  int
	Height int
}

// ApplySettings merges partial camera parameters into the worker's current ones
type ApplySettings struct {
	Settings scene.Settings
}

// RenderPixel asks for the color of one pixel
type RenderPixel struct {
	Generation uint64
	X, Y       int
	Chunk      int
}

func (InitScene) isMessage()     {}
func (ApplySettings) isMessage() {}
func (RenderPixel) isMessage()   {}

// PixelResult is a worker's reply to RenderPixel, carrying linear color
type PixelResult struct {
	Worker     int
	Generation uint64
	X, Y       int
	Chunk      int
	Color      core.Vec3
}

// inboxSize bounds how many messages can be queued for one worker
const inboxSize = 16

// Worker renders pixels of its own copy of the scene and camera.
// All fields below inbox are owned by the worker goroutine.
type Worker struct {
	ID      int
	inbox   chan Message
	results chan<- PixelResult
	seed    int64
	logger  core.Logger

	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	random     *rand.Rand
}

// WorkerPool owns a fixed set of workers and the channel they reply on
type WorkerPool struct {
	workers []*Worker
	results chan PixelResult
	wg      sync.WaitGroup
}

// NewWorkerPool creates numWorkers workers; numWorkers <= 0 uses DefaultWorkerCount.
// Every worker can have one outstanding pixel without blocking on the result channel.
func NewWorkerPool(numWorkers int, seed int64, logger core.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	wp := &WorkerPool{
		results: make(chan PixelResult, numWorkers),
	}
	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:      i,
			inbox:   make(chan Message, inboxSize),
			results: wp.results,
			seed:    seed,
			logger:  logger,
			random:  rand.New(rand.NewSource(seed)),
		})
	}
	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes every inbox and waits for the workers to drain them
func (wp *WorkerPool) Stop() {
	for _, worker := range wp.workers {
		close(worker.inbox)
	}
	wp.wg.Wait()
}

// Post queues a message for one worker
func (wp *WorkerPool) Post(worker int, msg Message) {
	wp.workers[worker].inbox <- msg
}

// Broadcast queues a message for every worker
func (wp *WorkerPool) Broadcast(msg Message) {
	for i := range wp.workers {
		wp.Post(i, msg)
	}
}

// Results returns the channel all workers reply on
func (wp *WorkerPool) Results() <-chan PixelResult {
	return wp.results
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return len(wp.workers)
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for msg := range w.inbox {
		switch m := msg.(type) {
		case InitScene:
			w.initScene(m)
		case ApplySettings:
			w.applySettings(m)
		case RenderPixel:
			w.results <- PixelResult{
				Worker:     w.ID,
				Generation: m.Generation,
				X:          m.X,
				Y:          m.Y,
				Chunk:      m.Chunk,
				Color:      w.renderPixel(m.X, m.Y),
			}
		}
	}
}

func (w *Worker) initScene(m InitScene) {
	camera, err := NewCamera(m.Params, m.Width, m.Height)
	if err != nil {
		w.logger.Printf("Worker %d: %v\n", w.ID, err)
		w.scene, w.camera, w.integrator = nil, nil, nil
		return
	}

	w.scene = m.Scene
	w.camera = camera
	w.integrator = integrator.NewPathTracingIntegrator(m.Scene.World, m.Scene.Lights, m.Params.Background)
}

func (w *Worker) applySettings(m ApplySettings) {
	if w.camera == nil {
		return
	}

	params := m.Settings.Apply(w.camera.Params())
	width, height := w.camera.Size()
	if err := w.camera.Init(params, width, height); err != nil {
		w.logger.Printf("Worker %d: ignoring settings: %v\n", w.ID, err)
		return
	}
	w.integrator = integrator.NewPathTracingIntegrator(w.scene.World, w.scene.Lights, params.Background)
}

// renderPixel returns black until a scene has been initialized
func (w *Worker) renderPixel(x, y int) core.Vec3 {
	if w.camera == nil {
		return core.Vec3{}
	}
	w.random.Seed(pixelSeed(w.seed, x, y))
	return w.camera.RenderPixel(x, y, w.integrator, w.random)
}

// pixelSeed derives an independent seed for every pixel, so a pixel's color
// does not depend on which worker rendered it or in what order
func pixelSeed(seed int64, x, y int) int64 {
	z := uint64(seed) ^ (uint64(uint32(y))<<32 | uint64(uint32(x)))
	// splitmix64 finalizer
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z)
}
