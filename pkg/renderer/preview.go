package renderer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// PreviewConfig is the reduced quality used while the camera is being adjusted
type PreviewConfig struct {
	SamplesPerPixel int           `json:"spp"`
	MaxDepth        int           `json:"maxDepth"`
	Scale           float64       `json:"scale"`    // Resolution scale relative to the full image
	Debounce        time.Duration `json:"debounce"` // Quiet period before full quality is restored
}

// DefaultPreviewConfig returns one sample, three bounces at half resolution
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		SamplesPerPixel: 1,
		MaxDepth:        3,
		Scale:           0.5,
		Debounce:        300 * time.Millisecond,
	}
}

// Preview renders at preview quality while changes keep arriving and restores
// full quality once they stop for the debounce period
type Preview struct {
	renderer *Renderer
	config   PreviewConfig

	mu         sync.Mutex
	active     bool
	timer      *time.Timer
	restoreSeq uint64         // Bumped by every schedule; only the latest timer may restore
	full       scene.Settings // Quality to restore: spp and depth
	fullWidth  int
	fullHeight int
	onRestore  func(generation uint64, err error)
}

// NewPreview creates a preview controller for r
func NewPreview(r *Renderer, config PreviewConfig) *Preview {
	return &Preview{renderer: r, config: config}
}

// OnRestore registers a callback run after full quality is restored and re-rendered
func (p *Preview) OnRestore(fn func(generation uint64, err error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onRestore = fn
}

// Active reports whether the renderer is currently at preview quality
func (p *Preview) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Adjust applies settings at preview quality and re-renders immediately.
// Quality settings in the request are remembered for the restored render.
func (p *Preview) Adjust(settings scene.Settings) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if settings.SamplesPerPixel != nil && *settings.SamplesPerPixel < 1 {
		return 0, fmt.Errorf("spp must be at least 1, got %d", *settings.SamplesPerPixel)
	}
	if settings.MaxDepth != nil && *settings.MaxDepth < 1 {
		return 0, fmt.Errorf("maxDepth must be at least 1, got %d", *settings.MaxDepth)
	}

	if err := p.enter(); err != nil {
		return 0, err
	}
	p.schedule()

	requested := scene.Settings{}
	if settings.SamplesPerPixel != nil {
		spp := *settings.SamplesPerPixel
		requested.SamplesPerPixel = &spp
	}
	if settings.MaxDepth != nil {
		depth := *settings.MaxDepth
		requested.MaxDepth = &depth
	}
	p.full = p.full.Merge(requested)

	spp, depth := p.config.SamplesPerPixel, p.config.MaxDepth
	settings.SamplesPerPixel = &spp
	settings.MaxDepth = &depth
	if err := p.renderer.ApplySettings(settings); err != nil {
		return 0, err
	}
	return p.renderer.Render()
}

// MoveCamera moves the camera at preview quality
func (p *Preview) MoveCamera(axis Axis, delta float64) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.enter(); err != nil {
		return 0, err
	}
	p.schedule()
	return p.renderer.MoveCamera(axis, delta)
}

// Stop cancels a pending restore without changing the renderer
func (p *Preview) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.restoreSeq++
}

// enter switches the renderer to preview quality, remembering the full settings
func (p *Preview) enter() error {
	if p.active {
		return nil
	}

	params, err := p.renderer.Params()
	if err != nil {
		return err
	}
	width, height, err := p.renderer.Size()
	if err != nil {
		return err
	}

	spp, depth := params.SamplesPerPixel, params.MaxDepth
	p.full = scene.Settings{SamplesPerPixel: &spp, MaxDepth: &depth}
	p.fullWidth, p.fullHeight = width, height

	previewWidth := max(1, int(math.Round(float64(width)*p.config.Scale)))
	previewHeight := max(1, int(math.Round(float64(height)*p.config.Scale)))
	if err := p.renderer.Resize(previewWidth, previewHeight); err != nil {
		return err
	}

	p.active = true
	return nil
}

// schedule (re)starts the debounce timer. A timer that already fired and is waiting
// for the lock sees a newer sequence number and does nothing.
func (p *Preview) schedule() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.restoreSeq++
	seq := p.restoreSeq
	p.timer = time.AfterFunc(p.config.Debounce, func() { p.restore(seq) })
}

// restore returns to full quality and re-renders, unless a later change rescheduled it
func (p *Preview) restore(seq uint64) {
	p.mu.Lock()
	if !p.active || seq != p.restoreSeq {
		p.mu.Unlock()
		return
	}
	p.active = false

	generation, err := p.restoreLocked(p.full)
	callback := p.onRestore
	p.mu.Unlock()

	if callback != nil {
		callback(generation, err)
	}
}

func (p *Preview) restoreLocked(settings scene.Settings) (uint64, error) {
	if err := p.renderer.ApplySettings(settings); err != nil {
		return 0, err
	}
	if err := p.renderer.Resize(p.fullWidth, p.fullHeight); err != nil {
		return 0, err
	}
	return p.renderer.Render()
}
