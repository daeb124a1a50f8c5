package pdf

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// PDF is a probability distribution over directions that can be both evaluated and sampled.
// Value must be positive for every direction Generate can return.
type PDF interface {
	Value(direction core.Vec3) float64
	Generate(random *rand.Rand) core.Vec3
}

// Target is geometry that can be sampled directly, as seen from a point in the scene.
// Lights implement it so that paths can be steered towards them.
type Target interface {
	// PDFValue returns the solid-angle density of sampling direction from origin
	PDFValue(origin, direction core.Vec3) float64
	// Random returns a direction from origin towards the target
	Random(origin core.Vec3, random *rand.Rand) core.Vec3
}

// SpherePDF is the uniform distribution over all directions
type SpherePDF struct{}

// Value returns 1/(4π) for every direction
func (SpherePDF) Value(direction core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// Generate returns a uniform random unit vector
func (SpherePDF) Generate(random *rand.Rand) core.Vec3 {
	return core.RandomUnitVector(random)
}

// CosinePDF is the cosine-weighted hemisphere distribution around a normal
type CosinePDF struct {
	basis core.ONB
}

// NewCosinePDF creates a cosine distribution around w
func NewCosinePDF(w core.Vec3) *CosinePDF {
	return &CosinePDF{basis: core.NewONB(w)}
}

// Value returns max(0, cosθ/π)
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.basis.W)
	return math.Max(0, cosine/math.Pi)
}

// Generate samples a cosine-weighted direction around the normal
func (p *CosinePDF) Generate(random *rand.Rand) core.Vec3 {
	return p.basis.Local(core.RandomCosineDirection(random))
}

// HittablePDF samples directions towards a Target from a fixed origin
type HittablePDF struct {
	target Target
	origin core.Vec3
}

// NewHittablePDF creates a distribution aimed at target as seen from origin
func NewHittablePDF(target Target, origin core.Vec3) *HittablePDF {
	return &HittablePDF{target: target, origin: origin}
}

// Value delegates to the target's PDFValue
func (p *HittablePDF) Value(direction core.Vec3) float64 {
	return p.target.PDFValue(p.origin, direction)
}

// Generate delegates to the target's Random
func (p *HittablePDF) Generate(random *rand.Rand) core.Vec3 {
	return p.target.Random(p.origin, random)
}

// MixturePDF is an equal-weight blend of two distributions
type MixturePDF struct {
	p [2]PDF
}

// NewMixturePDF creates a 50/50 mixture of p0 and p1
func NewMixturePDF(p0, p1 PDF) *MixturePDF {
	return &MixturePDF{p: [2]PDF{p0, p1}}
}

// Value returns the average of both densities
func (m *MixturePDF) Value(direction core.Vec3) float64 {
	return 0.5*m.p[0].Value(direction) + 0.5*m.p[1].Value(direction)
}

// Generate picks one of the two distributions with equal probability and samples it
func (m *MixturePDF) Generate(random *rand.Rand) core.Vec3 {
	if random.Float64() < 0.5 {
		return m.p[0].Generate(random)
	}
	return m.p[1].Generate(random)
}
