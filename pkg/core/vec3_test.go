package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		normal   Vec3
		expected Vec3
	}{
		{
			name:     "Head-on reflection",
			vector:   NewVec3(0, 0, -1),
			normal:   NewVec3(0, 0, 1),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "45 degree reflection",
			vector:   NewVec3(1, -1, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(1, 1, 0),
		},
		{
			name:     "Grazing direction unchanged",
			vector:   NewVec3(1, 0, 0),
			normal:   NewVec3(0, 1, 0),
			expected: NewVec3(1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Reflect(tt.normal)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_RefractStraightThrough(t *testing.T) {
	// Normal incidence is never bent, whatever the index ratio
	v := NewVec3(0, 0, -1)
	n := NewVec3(0, 0, 1)

	for _, ratio := range []float64{1.0, 1.0 / 1.5, 1.5} {
		refracted := v.Refract(n, ratio)
		if refracted.Subtract(v).Length() > 1e-9 {
			t.Errorf("ratio %f: expected %v, got %v", ratio, v, refracted)
		}
	}
}

func TestVec3_RefractSnellsLaw(t *testing.T) {
	// 45 degrees entering glass from air
	v := NewVec3(1, -1, 0).Normalize()
	n := NewVec3(0, 1, 0)
	ratio := 1.0 / 1.5

	refracted := v.Refract(n, ratio).Normalize()

	sinIn := math.Sqrt(0.5)
	sinOut := math.Abs(refracted.X)
	if math.Abs(sinIn*ratio-sinOut) > 1e-9 {
		t.Errorf("Snell's law violated: sinIn*ratio=%f, sinOut=%f", sinIn*ratio, sinOut)
	}
	if refracted.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", refracted)
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	zero := Vec3{}
	if n := zero.Normalize(); n != zero {
		t.Errorf("Expected zero vector to normalize to zero, got %v", n)
	}
	if !zero.NearZero() {
		t.Error("Expected zero vector to be near zero")
	}
	if NewVec3(1e-7, 0, 0).NearZero() {
		t.Error("1e-7 should not be near zero")
	}
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(1, 2, 3)
	for axis, expected := range []float64{1, 2, 3} {
		if got := v.Axis(axis); got != expected {
			t.Errorf("Axis(%d) = %f, expected %f", axis, got, expected)
		}
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestONB_Orthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 1, 1),
		NewVec3(-0.95, 0.1, 0.2),
	}

	const tolerance = 1e-9
	for _, n := range normals {
		basis := NewONB(n)
		if math.Abs(basis.U.Length()-1) > tolerance || math.Abs(basis.V.Length()-1) > tolerance || math.Abs(basis.W.Length()-1) > tolerance {
			t.Errorf("Basis for %v is not unit length: %+v", n, basis)
		}
		if math.Abs(basis.U.Dot(basis.V)) > tolerance || math.Abs(basis.U.Dot(basis.W)) > tolerance || math.Abs(basis.V.Dot(basis.W)) > tolerance {
			t.Errorf("Basis for %v is not orthogonal: %+v", n, basis)
		}
		if basis.W.Subtract(n.Normalize()).Length() > tolerance {
			t.Errorf("W axis should match normal %v, got %v", n.Normalize(), basis.W)
		}
		if basis != NewONB(n) {
			t.Errorf("Basis for %v is not deterministic", n)
		}
	}
}
