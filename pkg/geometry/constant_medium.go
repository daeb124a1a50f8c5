package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// ConstantMedium is a volume of uniform density (fog, smoke) bounded by a convex shape
type ConstantMedium struct {
	Boundary      Hittable
	NegInvDensity float64
	PhaseFunction material.Material
}

// NewConstantMedium creates a medium scattering isotropically with the given albedo
func NewConstantMedium(boundary Hittable, density float64, albedo core.Vec3) *ConstantMedium {
	return NewTexturedConstantMedium(boundary, density, material.NewSolidColor(albedo))
}

// NewTexturedConstantMedium creates a medium whose albedo is given by a texture
func NewTexturedConstantMedium(boundary Hittable, density float64, albedo material.Texture) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		NegInvDensity: -1 / density,
		PhaseFunction: material.NewTexturedIsotropic(albedo),
	}
}

// Hit samples an exponential free path between the boundary entry and exit points.
// Without a random source the medium is treated as transparent.
func (m *ConstantMedium) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	if random == nil || !(m.NegInvDensity < 0) {
		return false
	}

	var rec1, rec2 material.HitRecord
	if !m.Boundary.Hit(ray, core.UniverseInterval, &rec1, random) {
		return false
	}
	if !m.Boundary.Hit(ray, core.Interval{Min: rec1.T + 0.0001, Max: math.Inf(1)}, &rec2, random) {
		return false
	}

	if rec1.T < rayT.Min {
		rec1.T = rayT.Min
	}
	if rec2.T > rayT.Max {
		rec2.T = rayT.Max
	}
	if rec1.T >= rec2.T {
		return false
	}
	if rec1.T < 0 {
		rec1.T = 0
	}

	rayLength := ray.Direction.Length()
	distanceInsideBoundary := (rec2.T - rec1.T) * rayLength
	hitDistance := m.NegInvDensity * math.Log(random.Float64())

	if hitDistance > distanceInsideBoundary {
		return false
	}

	rec.T = rec1.T + hitDistance/rayLength
	rec.Point = ray.At(rec.T)
	rec.Normal = core.NewVec3(1, 0, 0) // arbitrary
	rec.FrontFace = true
	rec.U, rec.V = 0, 0
	rec.Material = m.PhaseFunction

	return true
}

// BoundingBox implements Hittable
func (m *ConstantMedium) BoundingBox() core.AABB {
	return m.Boundary.BoundingBox()
}
