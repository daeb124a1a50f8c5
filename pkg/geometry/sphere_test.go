package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

func TestSphere_HitRoundTrip(t *testing.T) {
	for _, radius := range []float64{0.25, 0.5, 1.0, 2.0} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), radius, testMaterial)
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

		var rec material.HitRecord
		if !sphere.Hit(ray, defaultRayT(), &rec, nil) {
			t.Fatalf("r=%f: expected hit", radius)
		}
		if math.Abs(rec.T-(5-radius)) > 1e-9 {
			t.Errorf("r=%f: expected t=%f, got %f", radius, 5-radius, rec.T)
		}
		if !rec.FrontFace {
			t.Errorf("r=%f: expected front face hit", radius)
		}
		if rec.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
			t.Errorf("r=%f: expected normal (0,0,1), got %v", radius, rec.Normal)
		}
		if rec.Material != testMaterial {
			t.Errorf("r=%f: expected sphere material on hit record", radius)
		}
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			var rec material.HitRecord
			if !sphere.Hit(ray, defaultRayT(), &rec, nil) {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(rec.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, rec.T)
			}
			if rec.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, rec.FrontFace)
			}
			if rec.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, rec.Normal)
			}
		})
	}
}

func TestSphere_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name string
		ray  core.Ray
		rayT core.Interval
	}{
		{"passes beside", core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0)), defaultRayT()},
		{"points away", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1)), defaultRayT()},
		{"beyond tMax", core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), core.NewInterval(0.001, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			if sphere.Hit(tt.ray, tt.rayT, &rec, nil) {
				t.Errorf("Expected miss, got hit at t=%f", rec.T)
			}
		})
	}
}

func TestSphere_Degenerate(t *testing.T) {
	for _, radius := range []float64{0, -1, math.NaN()} {
		sphere := NewSphere(core.NewVec3(0, 0, 0), radius, testMaterial)
		if !sphere.BoundingBox().IsEmpty() {
			t.Errorf("r=%f: expected empty bounding box, got %+v", radius, sphere.BoundingBox())
		}

		var rec material.HitRecord
		ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
		if sphere.Hit(ray, defaultRayT(), &rec, nil) {
			t.Errorf("r=%f: degenerate sphere should never hit", radius)
		}
	}
}

func TestSphere_UV(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name   string
		origin core.Vec3
		u, v   float64
	}{
		{"+x", core.NewVec3(5, 0, 0), 0.5, 0.5},
		{"+z", core.NewVec3(0, 0, 5), 0.25, 0.5},
		{"+y", core.NewVec3(0, 5, 0), -1, 1.0}, // u undefined at the pole
		{"-y", core.NewVec3(0, -5, 0), -1, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec material.HitRecord
			ray := core.NewRay(tt.origin, tt.origin.Negate())
			if !sphere.Hit(ray, defaultRayT(), &rec, nil) {
				t.Fatal("Expected hit")
			}
			if tt.u >= 0 && math.Abs(rec.U-tt.u) > 1e-9 {
				t.Errorf("Expected u=%f, got %f", tt.u, rec.U)
			}
			if math.Abs(rec.V-tt.v) > 1e-9 {
				t.Errorf("Expected v=%f, got %f", tt.v, rec.V)
			}
		})
	}
}

func TestSphere_Moving(t *testing.T) {
	sphere := NewMovingSphere(core.NewVec3(0, 0, 0), core.NewVec3(0, 2, 0), 0.5, testMaterial)

	box := sphere.BoundingBox()
	if box.Y.Min > -0.5 || box.Y.Max < 2.5 {
		t.Errorf("Bounding box must cover the whole motion, got Y [%f, %f]", box.Y.Min, box.Y.Max)
	}

	// At time 0 the sphere is at the origin, at time 1 it has moved out of the ray's path
	var rec material.HitRecord
	if !sphere.Hit(core.NewRayAtTime(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 0), defaultRayT(), &rec, nil) {
		t.Error("Expected hit at time 0")
	}
	if sphere.Hit(core.NewRayAtTime(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 1), defaultRayT(), &rec, nil) {
		t.Error("Expected miss at time 1")
	}
	if !sphere.Hit(core.NewRayAtTime(core.NewVec3(0, 2, 5), core.NewVec3(0, 0, -1), 1), defaultRayT(), &rec, nil) {
		t.Error("Expected hit at the moved center at time 1")
	}
	if rec.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Normal should use the moved center, got %v", rec.Normal)
	}
}

func TestSphere_PDF(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sphere := NewSphere(core.NewVec3(0, 5, 0), 3.0, testMaterial)
	origin := core.Vec3{}

	// Every sampled direction hits the sphere with positive density
	for i := 0; i < 1000; i++ {
		dir := sphere.Random(origin, random)
		if sphere.PDFValue(origin, dir) <= 0 {
			t.Fatalf("Sampled direction %v has zero density", dir)
		}
	}

	// The density integrates to 1 over the sphere of directions
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += sphere.PDFValue(origin, core.RandomUnitVector(random))
	}
	if integral := sum / n * 4 * math.Pi; math.Abs(integral-1) > 0.03 {
		t.Errorf("Expected sphere PDF to integrate to 1, got %f", integral)
	}

	if v := sphere.PDFValue(origin, core.NewVec3(0, -1, 0)); v != 0 {
		t.Errorf("Expected zero density away from the sphere, got %f", v)
	}
}

func TestSphere_PDFFromInside(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sphere := NewSphere(core.NewVec3(0, 0, 0), 2.0, testMaterial)
	origin := core.NewVec3(0.5, 0, 0)

	for i := 0; i < 100; i++ {
		dir := sphere.Random(origin, random)
		if math.Abs(sphere.PDFValue(origin, dir)-1/(4*math.Pi)) > 1e-12 {
			t.Fatalf("Expected uniform density from inside the sphere")
		}
	}
}
