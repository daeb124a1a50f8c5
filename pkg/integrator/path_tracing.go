package integrator

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
	"github.com/df07/go-tiled-pathtracer/pkg/pdf"
)

const (
	// shadowAcneEpsilon keeps secondary rays from re-hitting the surface they start on
	shadowAcneEpsilon = 0.001

	// minPDFValue is the smallest sampling density a path may continue with
	minPDFValue = 1e-12
)

// PathTracingIntegrator implements unidirectional path tracing with light sampling.
// Diffuse bounces sample a 50/50 mixture of the material's distribution and the lights.
// With no lights it falls back to sampling the material alone.
type PathTracingIntegrator struct {
	World      geometry.Hittable
	Lights     *geometry.HittableList // may be nil or empty
	Background Background
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(world geometry.Hittable, lights *geometry.HittableList, background Background) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		World:      world,
		Lights:     lights,
		Background: background,
	}
}

// RayColor computes the color for a single ray using recursive path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	var hit material.HitRecord
	if !pt.World.Hit(ray, core.Interval{Min: shadowAcneEpsilon, Max: math.Inf(1)}, &hit, random) {
		return pt.Background.Radiance(ray.Direction)
	}

	// Surfaces without a material absorb everything
	if hit.Material == nil {
		return core.Vec3{}
	}

	colorEmitted := hit.Material.Emitted(ray, &hit)

	scatter, didScatter := hit.Material.Scatter(ray, &hit, random)
	if !didScatter {
		return colorEmitted
	}

	if scatter.SkipPDF {
		return colorEmitted.Add(scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.SkipPDFRay, depth-1, random)))
	}

	if scatter.PDF == nil {
		return colorEmitted
	}

	return colorEmitted.Add(pt.sampleScattered(ray, &hit, scatter, depth, random))
}

// sampleScattered estimates the light scattered at hit by importance sampling one direction
func (pt *PathTracingIntegrator) sampleScattered(ray core.Ray, hit *material.HitRecord, scatter material.ScatterRecord, depth int, random *rand.Rand) core.Vec3 {
	samplingPDF := scatter.PDF
	if pt.hasLights() {
		samplingPDF = pdf.NewMixturePDF(pdf.NewHittablePDF(pt.Lights, hit.Point), scatter.PDF)
	}

	direction := samplingPDF.Generate(random)
	if direction.NearZero() || !direction.IsFinite() {
		direction = hit.Normal
	}
	scattered := core.NewRayAtTime(hit.Point, direction, ray.Time)

	pdfValue := samplingPDF.Value(direction)
	if !(pdfValue > minPDFValue) {
		return core.Vec3{}
	}

	scatteringPDF := hit.Material.ScatteringPDF(ray, hit, scattered)
	if scatteringPDF <= 0 {
		return core.Vec3{}
	}

	incoming := pt.RayColor(scattered, depth-1, random)
	return scatter.Attenuation.MultiplyVec(incoming).Multiply(scatteringPDF / pdfValue)
}

func (pt *PathTracingIntegrator) hasLights() bool {
	return pt.Lights != nil && pt.Lights.Len() > 0
}
