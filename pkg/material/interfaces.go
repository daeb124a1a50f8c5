package material

import (
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/pdf"
)

// Material describes how a surface scatters and emits light
type Material interface {
	// Scatter returns the attenuation and either a sampling distribution or, for specular
	// materials, a fixed continuation ray. False means the ray is absorbed.
	Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (ScatterRecord, bool)

	// Emitted returns the light emitted at the hit point towards the incoming ray
	Emitted(rayIn core.Ray, hit *HitRecord) core.Vec3

	// ScatteringPDF returns the density with which the material scatters into scattered.
	// It must agree with the distribution returned by Scatter.
	ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64
}

// ScatterRecord contains the result of material scattering
type ScatterRecord struct {
	Attenuation core.Vec3 // Color attenuation
	PDF         pdf.PDF   // Distribution for the continuation direction (nil when SkipPDF)
	SkipPDF     bool      // Specular scattering: follow SkipPDFRay instead of sampling PDF
	SkipPDFRay  core.Ray  // The continuation ray for specular scattering
}

// HitRecord contains information about a ray-object intersection.
// It is filled in place by Hittable.Hit and reused across a traversal.
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	U, V      float64   // Surface coordinates
	FrontFace bool      // Whether ray hit the front (outward) face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal is assumed to have unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// black is returned by materials that do not emit
var black = core.Vec3{}
