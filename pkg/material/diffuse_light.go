package material

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// DiffuseLight represents a light-emitting surface. It emits only from its front face.
type DiffuseLight struct {
	Emission Texture
}

// NewDiffuseLight creates a new emissive material with a solid color
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a new emissive material driven by a texture
func NewTexturedDiffuseLight(emission Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter implements Material; lights absorb every incoming ray
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

// Emitted returns the emission texture on the front face and black on the back face
func (e *DiffuseLight) Emitted(rayIn core.Ray, hit *HitRecord) core.Vec3 {
	if !hit.FrontFace {
		return black
	}
	return e.Emission.Value(hit.U, hit.V, hit.Point)
}

// ScatteringPDF implements Material
func (e *DiffuseLight) ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64 {
	return 0
}
