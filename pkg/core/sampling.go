package core

import (
	"math"
	"math/rand"
)

// RandomRange returns a random float64 in [min, max)
func RandomRange(random *rand.Rand, min, max float64) float64 {
	return min + (max-min)*random.Float64()
}

// RandomVec3 returns a vector with each component in [min, max)
func RandomVec3(random *rand.Rand, min, max float64) Vec3 {
	return NewVec3(
		RandomRange(random, min, max),
		RandomRange(random, min, max),
		RandomRange(random, min, max),
	)
}

// RandomUnitVector generates a uniform random direction on the unit sphere
func RandomUnitVector(random *rand.Rand) Vec3 {
	z := 1.0 - 2.0*random.Float64() // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * random.Float64()
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomInUnitDisk generates a random point in the unit disk on the z=0 plane (for depth of field)
func RandomInUnitDisk(random *rand.Rand) Vec3 {
	for {
		// Generate random point in [-1,1] x [-1,1] square
		p := NewVec3(2*random.Float64()-1, 2*random.Float64()-1, 0)
		// Accept if inside unit disk
		if p.LengthSquared() <= 1.0 {
			return p
		}
	}
}

// RandomCosineDirection generates a cosine-weighted direction in the hemisphere around +Z
func RandomCosineDirection(random *rand.Rand) Vec3 {
	r1 := random.Float64()
	r2 := random.Float64()

	phi := 2.0 * math.Pi * r1
	x := math.Cos(phi) * math.Sqrt(r2)
	y := math.Sin(phi) * math.Sqrt(r2)
	z := math.Sqrt(1.0 - r2)

	return NewVec3(x, y, z)
}

// RandomToSphere generates a direction around +Z uniformly within the cone subtended by a
// sphere of the given radius whose center is distanceSquared away
func RandomToSphere(random *rand.Rand, radius, distanceSquared float64) Vec3 {
	r1 := random.Float64()
	r2 := random.Float64()
	z := 1.0 + r2*(math.Sqrt(1.0-radius*radius/distanceSquared)-1.0)

	phi := 2.0 * math.Pi * r1
	sinTheta := math.Sqrt(math.Max(0, 1.0-z*z))

	return NewVec3(math.Cos(phi)*sinTheta, math.Sin(phi)*sinTheta, z)
}
