package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Sphere represents a sphere shape, optionally moving linearly over the shutter interval
type Sphere struct {
	Center   core.Ray // Center at time 0 plus its displacement over one time unit
	Radius   float64
	Material material.Material
	bbox     core.AABB
}

// NewSphere creates a new stationary sphere.
// A sphere with a negative or NaN radius never hits and has an empty bounding box.
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	s := &Sphere{
		Center:   core.NewRay(center, core.Vec3{}),
		Radius:   sanitizeRadius(radius),
		Material: material,
	}
	if s.degenerate() {
		s.bbox = core.EmptyAABB
	} else {
		rvec := core.NewVec3(s.Radius, s.Radius, s.Radius)
		s.bbox = core.NewAABBFromPoints(center.Subtract(rvec), center.Add(rvec))
	}
	return s
}

// NewMovingSphere creates a sphere whose center moves from center1 at time 0 to center2 at time 1
func NewMovingSphere(center1, center2 core.Vec3, radius float64, material material.Material) *Sphere {
	s := &Sphere{
		Center:   core.NewRay(center1, center2.Subtract(center1)),
		Radius:   sanitizeRadius(radius),
		Material: material,
	}
	if s.degenerate() {
		s.bbox = core.EmptyAABB
	} else {
		rvec := core.NewVec3(s.Radius, s.Radius, s.Radius)
		box1 := core.NewAABBFromPoints(center1.Subtract(rvec), center1.Add(rvec))
		box2 := core.NewAABBFromPoints(center2.Subtract(rvec), center2.Add(rvec))
		s.bbox = box1.Union(box2)
	}
	return s
}

func sanitizeRadius(radius float64) float64 {
	if math.IsNaN(radius) || radius < 0 {
		return 0
	}
	return radius
}

func (s *Sphere) degenerate() bool {
	return s.Radius <= 0 || !s.Center.Origin.IsFinite() || !s.Center.Direction.IsFinite()
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	if s.degenerate() {
		return false
	}

	center := s.Center.At(ray.Time)

	// Quadratic equation coefficients: at² - 2ht + c = 0
	oc := center.Subtract(ray.Origin)
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return false
	}
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 {
		return false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if !rayT.Surrounds(root) {
		root = (h + sqrtD) / a
		if !rayT.Surrounds(root) {
			return false
		}
	}

	rec.T = root
	rec.Point = ray.At(root)
	outwardNormal := rec.Point.Subtract(center).Multiply(1.0 / s.Radius)
	rec.SetFaceNormal(ray, outwardNormal)
	rec.U, rec.V = sphereUV(outwardNormal)
	rec.Material = s.Material

	return true
}

// sphereUV maps a point on the unit sphere to texture coordinates.
// u is the angle around the Y axis from X=-1, v the angle from Y=-1 to Y=+1.
func sphereUV(p core.Vec3) (u, v float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

// PDFValue returns the solid-angle density of sampling direction towards the sphere from origin.
// Light sampling uses the center at time 0, so it is only exact for stationary spheres.
func (s *Sphere) PDFValue(origin, direction core.Vec3) float64 {
	var rec material.HitRecord
	if !s.Hit(core.NewRay(origin, direction), core.NewInterval(0.001, math.Inf(1)), &rec, nil) {
		return 0
	}

	distanceSquared := s.Center.Origin.Subtract(origin).LengthSquared()
	if distanceSquared <= s.Radius*s.Radius {
		// Inside the sphere every direction hits it
		return uniformSphereDensity
	}

	cosThetaMax := math.Sqrt(1 - s.Radius*s.Radius/distanceSquared)
	solidAngle := 2 * math.Pi * (1 - cosThetaMax)
	if solidAngle <= 0 {
		return 0
	}
	return 1 / solidAngle
}

// Random samples a direction inside the cone the sphere subtends from origin
func (s *Sphere) Random(origin core.Vec3, random *rand.Rand) core.Vec3 {
	direction := s.Center.Origin.Subtract(origin)
	distanceSquared := direction.LengthSquared()
	if distanceSquared <= s.Radius*s.Radius {
		return core.RandomUnitVector(random)
	}

	basis := core.NewONB(direction)
	return basis.Local(core.RandomToSphere(random, s.Radius, distanceSquared))
}
