package integrator

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray, following at most depth bounces
	RayColor(ray core.Ray, depth int, random *rand.Rand) core.Vec3
}
