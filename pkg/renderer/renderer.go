package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

var (
	ErrNoScene    = errors.New("no scene loaded")
	ErrSuperseded = errors.New("render superseded by a newer request")
	ErrClosed     = errors.New("renderer closed")
)

// Config contains configuration for the tiled renderer
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	Workers         int   // Number of parallel workers (0 = logical CPU count)
	ChunksPerWorker int   // Chunks in the grid for every worker
	Seed            int64 // Base seed for per-pixel random generators
}

// DefaultConfig returns a 16:9 image with four chunks per worker
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		Workers:         0,
		ChunksPerWorker: 4,
		Seed:            42,
	}
}

// Validate reports configuration the renderer cannot run with
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ChunksPerWorker < 1 {
		return fmt.Errorf("chunksPerWorker must be at least 1, got %d", c.ChunksPerWorker)
	}
	return nil
}

// PixelUpdate is sent for every pixel of the current render as it completes
type PixelUpdate struct {
	Generation uint64
	X, Y       int
	Color      color.RGBA
}

// Frame is a completed render
type Frame struct {
	Generation uint64
	Image      *image.RGBA // Copy owned by the receiver
	Stats      RenderStats
}

// renderOutcome is delivered to RenderSync callers
type renderOutcome struct {
	frame Frame
	err   error
}

// assignment tracks a worker's progress through its current chunk
type assignment struct {
	chunk Chunk
	next  int // Index of the next pixel to dispatch
}

// updateBufferSize bounds the pixel updates held for a slow consumer; extra updates are dropped
const updateBufferSize = 4096

// Renderer coordinates a worker pool rendering an image chunk by chunk, one pixel per message.
// A single coordinator goroutine owns the framebuffer and all dispatch state; public methods
// hand it closures and wait for them to run.
type Renderer struct {
	config Config
	logger core.Logger
	pool   *WorkerPool

	commands  chan func()
	updates   chan PixelUpdate
	frames    chan Frame
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	// Coordinator state
	scene          *scene.Scene
	params         scene.CameraParams
	width, height  int
	framebuffer    *image.RGBA
	chunks         []Chunk
	generation     uint64
	active         bool
	nextChunk      int
	assignments    []*assignment
	outstanding    []bool
	remaining      int
	started        time.Time
	stale          int
	droppedUpdates int
	waiters        []chan renderOutcome
}

// NewRenderer starts a worker pool and its coordinator. Call Close to stop them.
func NewRenderer(config Config, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid renderer config: %w", err)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	pool := NewWorkerPool(config.Workers, config.Seed, logger)
	r := &Renderer{
		config:      config,
		logger:      logger,
		pool:        pool,
		commands:    make(chan func()),
		updates:     make(chan PixelUpdate, updateBufferSize),
		frames:      make(chan Frame, 1),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
		assignments: make([]*assignment, pool.NumWorkers()),
		outstanding: make([]bool, pool.NumWorkers()),
	}
	r.resize(config.Width, config.Height)

	pool.Start()
	go r.loop()

	return r, nil
}

// Close stops the coordinator and all workers. Pending RenderSync calls fail with ErrClosed.
func (r *Renderer) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
	<-r.loopDone
}

// Updates returns pixel updates of the current render. Updates are dropped rather than
// blocking the coordinator when the consumer falls behind; Frames carries the full image.
func (r *Renderer) Updates() <-chan PixelUpdate {
	return r.updates
}

// Frames returns completed renders. Only the latest unread frame is kept.
func (r *Renderer) Frames() <-chan Frame {
	return r.frames
}

// NumWorkers returns the size of the worker pool
func (r *Renderer) NumWorkers() int {
	return r.pool.NumWorkers()
}

// SetScene hands a new scene to every worker and cancels any render in progress.
// The scene's camera parameters become the current parameters.
func (r *Renderer) SetScene(s *scene.Scene) error {
	if s == nil || s.World == nil {
		return errors.New("scene has no world")
	}
	if err := s.Camera.Validate(); err != nil {
		return fmt.Errorf("invalid scene camera: %w", err)
	}

	return r.do(func() error {
		r.scene = s
		r.params = s.Camera
		r.invalidate()
		r.broadcastScene()
		r.logger.Printf("Loaded scene %s (%d primitives, %d lights)\n", s.Name, s.PrimitiveCount(), s.Lights.Len())
		return nil
	})
}

// ApplySettings merges partial camera parameters into the current ones and cancels any
// render in progress. Invalid results are rejected and leave the parameters unchanged.
func (r *Renderer) ApplySettings(settings scene.Settings) error {
	return r.do(func() error {
		return r.applySettings(settings)
	})
}

func (r *Renderer) applySettings(settings scene.Settings) error {
	if r.scene == nil {
		return ErrNoScene
	}
	params := settings.Apply(r.params)
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	r.params = params
	r.invalidate()
	r.pool.Broadcast(ApplySettings{Settings: settings})
	return nil
}

// Params returns the current camera parameters
func (r *Renderer) Params() (scene.CameraParams, error) {
	var params scene.CameraParams
	err := r.do(func() error {
		params = r.params
		return nil
	})
	return params, err
}

// Size returns the current image size
func (r *Renderer) Size() (width, height int, err error) {
	err = r.do(func() error {
		width, height = r.width, r.height
		return nil
	})
	return width, height, err
}

// Resize changes the image size, rebuilding the chunk grid and framebuffer.
// Any render in progress is cancelled.
func (r *Renderer) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}

	return r.do(func() error {
		if width == r.width && height == r.height {
			return nil
		}
		r.invalidate()
		r.resize(width, height)
		if r.scene != nil {
			r.broadcastScene()
		}
		return nil
	})
}

// Axis selects a world axis for MoveCamera
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" to an Axis
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// MoveCamera moves both the camera and its target by delta along a world axis and
// starts a new render
func (r *Renderer) MoveCamera(axis Axis, delta float64) (uint64, error) {
	var generation uint64
	err := r.do(func() error {
		var offset core.Vec3
		switch axis {
		case AxisX:
			offset.X = delta
		case AxisY:
			offset.Y = delta
		case AxisZ:
			offset.Z = delta
		default:
			return fmt.Errorf("unknown axis %d", axis)
		}

		from := r.params.LookFrom.Add(offset)
		at := r.params.LookAt.Add(offset)
		if err := r.applySettings(scene.Settings{LookFrom: &from, LookAt: &at}); err != nil {
			return err
		}

		var err error
		generation, err = r.startRender(nil)
		return err
	})
	return generation, err
}

// Render starts a new render from scratch, superseding any render in progress,
// and returns its generation
func (r *Renderer) Render() (uint64, error) {
	var generation uint64
	err := r.do(func() error {
		var err error
		generation, err = r.startRender(nil)
		return err
	})
	return generation, err
}

// RenderSync starts a new render and waits for it to complete
func (r *Renderer) RenderSync(ctx context.Context) (Frame, error) {
	waiter := make(chan renderOutcome, 1)
	err := r.do(func() error {
		_, err := r.startRender(waiter)
		return err
	})
	if err != nil {
		return Frame{}, err
	}

	select {
	case outcome := <-waiter:
		return outcome.frame, outcome.err
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Snapshot returns a copy of the framebuffer as it is now
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	var img *image.RGBA
	err := r.do(func() error {
		img = cloneImage(r.framebuffer)
		return nil
	})
	return img, err
}

// do runs fn on the coordinator goroutine and returns its error
func (r *Renderer) do(fn func() error) error {
	errc := make(chan error, 1)
	select {
	case r.commands <- func() { errc <- fn() }:
	case <-r.done:
		return ErrClosed
	}
	return <-errc
}

// loop is the coordinator: the only goroutine that touches dispatch state or the framebuffer
func (r *Renderer) loop() {
	defer close(r.loopDone)

	for {
		select {
		case cmd := <-r.commands:
			cmd()
		case result := <-r.pool.Results():
			r.handleResult(result)
		case <-r.done:
			r.shutdown()
			return
		}
	}
}

func (r *Renderer) shutdown() {
	r.failWaiters(ErrClosed)
	r.active = false
	r.pool.Stop()
	close(r.updates)
	close(r.frames)
}

func (r *Renderer) resize(width, height int) {
	r.width = width
	r.height = height
	r.framebuffer = newFramebuffer(width, height)
	cols, rows := ChunkGridSize(r.pool.NumWorkers(), r.config.ChunksPerWorker)
	r.chunks = NewChunkGrid(width, height, cols, rows)
}

func (r *Renderer) broadcastScene() {
	r.pool.Broadcast(InitScene{
		Scene:  r.scene,
		Params: r.params,
		Width:  r.width,
		Height: r.height,
	})
}

// invalidate stops dispatching the current render; its in-flight pixels are dropped on arrival
func (r *Renderer) invalidate() {
	if r.active {
		r.active = false
		r.failWaiters(ErrSuperseded)
	}
}

func (r *Renderer) failWaiters(err error) {
	for _, waiter := range r.waiters {
		waiter <- renderOutcome{err: err}
	}
	r.waiters = nil
}

func (r *Renderer) startRender(waiter chan renderOutcome) (uint64, error) {
	if r.scene == nil {
		return 0, ErrNoScene
	}

	r.invalidate()
	r.generation++
	r.active = true
	r.nextChunk = 0
	r.remaining = r.width * r.height
	r.stale = 0
	r.droppedUpdates = 0
	r.started = time.Now()
	for i := range r.assignments {
		r.assignments[i] = nil
	}
	if waiter != nil {
		r.waiters = append(r.waiters, waiter)
	}

	r.logger.Printf("Render %d: %dx%d, %d spp, depth %d, %d chunks on %d workers\n",
		r.generation, r.width, r.height, r.params.SamplesPerPixel, r.params.MaxDepth, len(r.chunks), r.pool.NumWorkers())

	for worker := range r.assignments {
		r.dispatch(worker)
	}
	return r.generation, nil
}

// dispatch posts the next pixel of the current render to an idle worker,
// handing it a fresh chunk when its current one is done
func (r *Renderer) dispatch(worker int) {
	if !r.active || r.outstanding[worker] {
		return
	}

	a := r.assignments[worker]
	if a == nil || a.next >= a.chunk.NumPixels() {
		if r.nextChunk >= len(r.chunks) {
			r.assignments[worker] = nil
			return
		}
		a = &assignment{chunk: r.chunks[r.nextChunk]}
		r.nextChunk++
		r.assignments[worker] = a
	}

	x, y := a.chunk.Pixel(a.next)
	a.next++
	r.outstanding[worker] = true
	r.pool.Post(worker, RenderPixel{Generation: r.generation, X: x, Y: y, Chunk: a.chunk.ID})
}

func (r *Renderer) handleResult(result PixelResult) {
	r.outstanding[result.Worker] = false

	if !r.active || result.Generation != r.generation {
		r.stale++
		r.dispatch(result.Worker)
		return
	}

	c := Vec3ToColor(result.Color)
	r.framebuffer.SetRGBA(result.X, result.Y, c)
	r.remaining--

	select {
	case r.updates <- PixelUpdate{Generation: result.Generation, X: result.X, Y: result.Y, Color: c}:
	default:
		r.droppedUpdates++
	}

	if r.remaining == 0 {
		r.finish()
		return
	}
	r.dispatch(result.Worker)
}

// finish publishes the completed frame
func (r *Renderer) finish() {
	r.active = false

	img := cloneImage(r.framebuffer)
	stats := RenderStats{
		Generation:       r.generation,
		Width:            r.width,
		Height:           r.height,
		TotalPixels:      r.width * r.height,
		TotalSamples:     r.width * r.height * r.params.SamplesPerPixel,
		SamplesPerPixel:  r.params.SamplesPerPixel,
		MaxDepth:         r.params.MaxDepth,
		Chunks:           len(r.chunks),
		Workers:          r.pool.NumWorkers(),
		StaleResults:     r.stale,
		Elapsed:          time.Since(r.started),
		AverageLuminance: CalculateAverageLuminance(img),
	}
	frame := Frame{Generation: r.generation, Image: img, Stats: stats}

	r.logger.Printf("Render %d completed in %v (%.0f samples/s, %d stale results, %d updates dropped)\n",
		r.generation, stats.Elapsed, stats.SamplesPerSecond(), r.stale, r.droppedUpdates)

	for _, waiter := range r.waiters {
		own := frame
		own.Image = cloneImage(img)
		waiter <- renderOutcome{frame: own}
	}
	r.waiters = nil

	// Keep only the newest frame for asynchronous consumers
	select {
	case <-r.frames:
	default:
	}
	select {
	case r.frames <- frame:
	default:
	}
}
