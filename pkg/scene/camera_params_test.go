package scene

import (
	"encoding/json"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func TestDefaultCameraParams_Valid(t *testing.T) {
	p := DefaultCameraParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("Default parameters should be valid: %v", err)
	}
	if p.SamplesPerPixel != 30 || p.MaxDepth != 20 || p.VFov != 90 || p.FocusDist != 1 {
		t.Errorf("Unexpected defaults: %+v", p)
	}
}

func TestCameraParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *CameraParams)
	}{
		{"zero spp", func(p *CameraParams) { p.SamplesPerPixel = 0 }},
		{"zero depth", func(p *CameraParams) { p.MaxDepth = 0 }},
		{"zero fov", func(p *CameraParams) { p.VFov = 0 }},
		{"straight fov", func(p *CameraParams) { p.VFov = 180 }},
		{"negative defocus", func(p *CameraParams) { p.DefocusAngle = -1 }},
		{"zero focus distance", func(p *CameraParams) { p.FocusDist = 0 }},
		{"look at self", func(p *CameraParams) { p.LookAt = p.LookFrom }},
		{"up parallel to view", func(p *CameraParams) { p.VUp = core.NewVec3(0, 0, 1) }},
		{"zero up", func(p *CameraParams) { p.VUp = core.Vec3{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultCameraParams()
			tt.modify(&p)
			if err := p.Validate(); err == nil {
				t.Errorf("Expected validation error for %+v", p)
			}
		})
	}
}

func TestSettings_Apply(t *testing.T) {
	spp := 1
	depth := 3
	from := core.NewVec3(1, 2, 3)
	settings := Settings{SamplesPerPixel: &spp, MaxDepth: &depth, LookFrom: &from}

	base := DefaultCameraParams()
	applied := settings.Apply(base)

	if applied.SamplesPerPixel != 1 || applied.MaxDepth != 3 || applied.LookFrom != from {
		t.Errorf("Settings not applied: %+v", applied)
	}
	if applied.VFov != base.VFov || applied.LookAt != base.LookAt || applied.Background != base.Background {
		t.Errorf("Unset fields should be unchanged: %+v", applied)
	}
	if base.SamplesPerPixel != 30 {
		t.Error("Apply must not modify its argument")
	}
}

func TestSettings_FromJSON(t *testing.T) {
	var settings Settings
	if err := json.Unmarshal([]byte(`{"spp": 4, "lookAt": {"x": 1, "y": 0, "z": 0}}`), &settings); err != nil {
		t.Fatal(err)
	}
	if settings.IsEmpty() {
		t.Fatal("Decoded settings should not be empty")
	}

	applied := settings.Apply(DefaultCameraParams())
	if applied.SamplesPerPixel != 4 || applied.LookAt != core.NewVec3(1, 0, 0) {
		t.Errorf("Unexpected parameters from JSON: %+v", applied)
	}
	if applied.MaxDepth != 20 {
		t.Errorf("Missing fields should keep defaults, got depth %d", applied.MaxDepth)
	}
}

func TestSettings_Merge(t *testing.T) {
	one, two := 1, 2
	fov := 45.0
	merged := Settings{SamplesPerPixel: &one, VFov: &fov}.Merge(Settings{SamplesPerPixel: &two})

	if *merged.SamplesPerPixel != 2 {
		t.Errorf("Later settings should win, got spp %d", *merged.SamplesPerPixel)
	}
	if merged.VFov == nil || *merged.VFov != 45 {
		t.Error("Merge should keep fields only set on the receiver")
	}
	if !(Settings{}).IsEmpty() {
		t.Error("Zero settings should be empty")
	}
}
