package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Unit normal (U × V normalized)
	Material material.Material // Material of the quad
	D        float64           // Plane equation constant: normal · p = D
	W        core.Vec3         // n / (n·n) with n = U × V, for planar coordinates
	Area     float64
	bbox     core.AABB
}

// NewQuad creates a new quad from a corner point and two edge vectors.
// Parallel or zero-length edges produce a quad that never hits.
func NewQuad(corner, u, v core.Vec3, material material.Material) *Quad {
	n := u.Cross(v)
	q := &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Material: material,
		Area:     n.Length(),
	}

	if q.Area == 0 || !n.IsFinite() {
		q.bbox = core.EmptyAABB
		return q
	}

	q.Normal = n.Normalize()
	q.D = q.Normal.Dot(corner)
	q.W = n.Multiply(1.0 / n.Dot(n))

	// Bounding box of all four vertices
	diagonal1 := core.NewAABBFromPoints(corner, corner.Add(u).Add(v))
	diagonal2 := core.NewAABBFromPoints(corner.Add(u), corner.Add(v))
	q.bbox = diagonal1.Union(diagonal2)

	return q
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	if q.Area == 0 {
		return false
	}

	denominator := ray.Direction.Dot(q.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if !rayT.Surrounds(t) {
		return false
	}

	// Planar coordinates of the hit point relative to the corner
	hitPoint := ray.At(t)
	planar := hitPoint.Subtract(q.Corner)
	alpha := q.W.Dot(planar.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(planar))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return false
	}

	rec.T = t
	rec.Point = hitPoint
	rec.U = alpha
	rec.V = beta
	rec.Material = q.Material
	rec.SetFaceNormal(ray, q.Normal)

	return true
}

// BoundingBox implements Hittable
func (q *Quad) BoundingBox() core.AABB {
	return q.bbox
}

// PDFValue converts the uniform area density of the quad into solid angle as seen from origin
func (q *Quad) PDFValue(origin, direction core.Vec3) float64 {
	var rec material.HitRecord
	if !q.Hit(core.NewRay(origin, direction), core.NewInterval(0.001, math.Inf(1)), &rec, nil) {
		return 0
	}

	lengthSquared := direction.LengthSquared()
	distanceSquared := rec.T * rec.T * lengthSquared
	cosine := math.Abs(direction.Dot(rec.Normal)) / math.Sqrt(lengthSquared)
	if cosine < 1e-8 {
		return 0
	}

	return distanceSquared / (cosine * q.Area)
}

// Random returns the direction from origin to a uniformly chosen point on the quad
func (q *Quad) Random(origin core.Vec3, random *rand.Rand) core.Vec3 {
	p := q.Corner.Add(q.U.Multiply(random.Float64())).Add(q.V.Multiply(random.Float64()))
	return p.Subtract(origin)
}
