package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

func TestLambertian_PDFMatchesScatteringPDF(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	lambertian := NewLambertian(albedo)
	random := rand.New(rand.NewSource(42))

	normal := core.NewVec3(0, 0, 1)
	hit := &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    normal,
		FrontFace: true,
	}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, didScatter := lambertian.Scatter(ray, hit, random)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.SkipPDF || scatter.PDF == nil {
		t.Fatal("Lambertian should scatter through a PDF")
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
	}

	// Sampling with the returned PDF and weighting by the material density averages to 1
	const n = 10000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := scatter.PDF.Generate(random)
		pdfValue := scatter.PDF.Value(dir)
		if pdfValue <= 0 {
			continue
		}
		sum += lambertian.ScatteringPDF(ray, hit, core.NewRay(hit.Point, dir)) / pdfValue
	}
	if mean := sum / n; math.Abs(mean-1.0) > 0.01 {
		t.Errorf("Expected mean ratio ≈ 1, got %f", mean)
	}
}

func TestLambertian_ScatteringPDFBelowSurface(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	hit := &HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	tests := []struct {
		name     string
		dir      core.Vec3
		expected float64
	}{
		{"along normal", core.NewVec3(0, 1, 0), 1 / math.Pi},
		{"unnormalized along normal", core.NewVec3(0, 5, 0), 1 / math.Pi},
		{"grazing", core.NewVec3(1, 0, 0), 0},
		{"below surface", core.NewVec3(0, -1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lambertian.ScatteringPDF(ray, hit, core.NewRay(core.Vec3{}, tt.dir))
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestLambertian_TexturedAlbedo(t *testing.T) {
	checker := NewCheckerTexture(2, core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0))
	lambertian := NewTexturedLambertian(checker)
	random := rand.New(rand.NewSource(42))
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit := &HitRecord{Normal: core.NewVec3(0, 1, 0), U: 0.1, V: 0.1}
	scatter, _ := lambertian.Scatter(ray, hit, random)
	if scatter.Attenuation != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected even color, got %v", scatter.Attenuation)
	}

	hit.U = 0.6
	scatter, _ = lambertian.Scatter(ray, hit, random)
	if scatter.Attenuation != core.NewVec3(0, 0, 0) {
		t.Errorf("Expected odd color, got %v", scatter.Attenuation)
	}

	if e := lambertian.Emitted(ray, hit); e != (core.Vec3{}) {
		t.Errorf("Lambertian should not emit, got %v", e)
	}
}
