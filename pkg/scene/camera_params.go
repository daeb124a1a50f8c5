package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/integrator"
)

// CameraParams is the camera and sampling record handed to every render worker
type CameraParams struct {
	SamplesPerPixel int                   `json:"spp"`
	MaxDepth        int                   `json:"maxDepth"`
	VFov            float64               `json:"vFov"` // Vertical field of view in degrees
	LookFrom        core.Vec3             `json:"lookFrom"`
	LookAt          core.Vec3             `json:"lookAt"`
	VUp             core.Vec3             `json:"vUp"`
	DefocusAngle    float64               `json:"defocusAngle"` // Cone angle of the lens aperture in degrees, 0 for a pinhole
	FocusDist       float64               `json:"focusDist"`
	Background      integrator.Background `json:"background"`
}

// DefaultCameraParams returns a pinhole camera at the origin looking down -Z
func DefaultCameraParams() CameraParams {
	return CameraParams{
		SamplesPerPixel: 30,
		MaxDepth:        20,
		VFov:            90,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       1,
		Background:      integrator.NewSolidBackground(core.NewVec3(0.7, 0.8, 1.0)),
	}
}

// Validate reports parameters the camera cannot build a basis or sample from
func (p CameraParams) Validate() error {
	var errs []error
	if p.SamplesPerPixel < 1 {
		errs = append(errs, fmt.Errorf("spp must be at least 1, got %d", p.SamplesPerPixel))
	}
	if p.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("maxDepth must be at least 1, got %d", p.MaxDepth))
	}
	if !(p.VFov > 0 && p.VFov < 180) {
		errs = append(errs, fmt.Errorf("vFov must be in (0, 180), got %g", p.VFov))
	}
	if !(p.DefocusAngle >= 0 && p.DefocusAngle < 180) {
		errs = append(errs, fmt.Errorf("defocusAngle must be in [0, 180), got %g", p.DefocusAngle))
	}
	if !(p.FocusDist > 0) || math.IsInf(p.FocusDist, 0) {
		errs = append(errs, fmt.Errorf("focusDist must be positive and finite, got %g", p.FocusDist))
	}

	view := p.LookFrom.Subtract(p.LookAt)
	switch {
	case !p.LookFrom.IsFinite() || !p.LookAt.IsFinite() || !p.VUp.IsFinite():
		errs = append(errs, errors.New("lookFrom, lookAt and vUp must be finite"))
	case view.NearZero():
		errs = append(errs, errors.New("lookFrom and lookAt must differ"))
	case p.VUp.Cross(view).NearZero():
		errs = append(errs, errors.New("vUp must not be parallel to the view direction"))
	}

	return errors.Join(errs...)
}

// Settings is a partial CameraParams used for live adjustment; nil fields are left unchanged
type Settings struct {
	SamplesPerPixel *int                   `json:"spp,omitempty"`
	MaxDepth        *int                   `json:"maxDepth,omitempty"`
	VFov            *float64               `json:"vFov,omitempty"`
	LookFrom        *core.Vec3             `json:"lookFrom,omitempty"`
	LookAt          *core.Vec3             `json:"lookAt,omitempty"`
	VUp             *core.Vec3             `json:"vUp,omitempty"`
	DefocusAngle    *float64               `json:"defocusAngle,omitempty"`
	FocusDist       *float64               `json:"focusDist,omitempty"`
	Background      *integrator.Background `json:"background,omitempty"`
}

// Apply returns a copy of params with every set field overridden
func (s Settings) Apply(params CameraParams) CameraParams {
	if s.SamplesPerPixel != nil {
		params.SamplesPerPixel = *s.SamplesPerPixel
	}
	if s.MaxDepth != nil {
		params.MaxDepth = *s.MaxDepth
	}
	if s.VFov != nil {
		params.VFov = *s.VFov
	}
	if s.LookFrom != nil {
		params.LookFrom = *s.LookFrom
	}
	if s.LookAt != nil {
		params.LookAt = *s.LookAt
	}
	if s.VUp != nil {
		params.VUp = *s.VUp
	}
	if s.DefocusAngle != nil {
		params.DefocusAngle = *s.DefocusAngle
	}
	if s.FocusDist != nil {
		params.FocusDist = *s.FocusDist
	}
	if s.Background != nil {
		params.Background = *s.Background
	}
	return params
}

// IsEmpty reports whether applying s would change nothing
func (s Settings) IsEmpty() bool {
	return s == Settings{}
}

// Merge returns s with every field set in other taking precedence
func (s Settings) Merge(other Settings) Settings {
	if other.SamplesPerPixel != nil {
		s.SamplesPerPixel = other.SamplesPerPixel
	}
	if other.MaxDepth != nil {
		s.MaxDepth = other.MaxDepth
	}
	if other.VFov != nil {
		s.VFov = other.VFov
	}
	if other.LookFrom != nil {
		s.LookFrom = other.LookFrom
	}
	if other.LookAt != nil {
		s.LookAt = other.LookAt
	}
	if other.VUp != nil {
		s.VUp = other.VUp
	}
	if other.DefocusAngle != nil {
		s.DefocusAngle = other.DefocusAngle
	}
	if other.FocusDist != nil {
		s.FocusDist = other.FocusDist
	}
	if other.Background != nil {
		s.Background = other.Background
	}
	return s
}
