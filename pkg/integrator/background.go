package integrator

import "github.com/df07/go-tiled-pathtracer/pkg/core"

// Background is the radiance returned for rays that escape the scene.
// It blends vertically from Bottom (looking straight down) to Top (looking straight up).
type Background struct {
	Bottom core.Vec3 `json:"bottom"`
	Top    core.Vec3 `json:"top"`
}

// NewSolidBackground creates a background of a single color
func NewSolidBackground(color core.Vec3) Background {
	return Background{Bottom: color, Top: color}
}

// NewGradientBackground creates a vertical gradient background
func NewGradientBackground(bottom, top core.Vec3) Background {
	return Background{Bottom: bottom, Top: top}
}

// Radiance returns the background color seen in direction
func (b Background) Radiance(direction core.Vec3) core.Vec3 {
	unit := direction.Normalize()
	t := 0.5 * (unit.Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}
