package geometry

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Translate moves a hittable by a fixed offset without copying it
type Translate struct {
	Object Hittable
	Offset core.Vec3
	bbox   core.AABB
}

// NewTranslate wraps object so that it appears displaced by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{
		Object: object,
		Offset: offset,
		bbox:   object.BoundingBox().Offset(offset),
	}
}

// Hit moves the ray into object space, intersects, then moves the hit point back
func (t *Translate) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	offsetRay := core.NewRayAtTime(ray.Origin.Subtract(t.Offset), ray.Direction, ray.Time)
	if !t.Object.Hit(offsetRay, rayT, rec, random) {
		return false
	}

	rec.Point = rec.Point.Add(t.Offset)
	return true
}

// BoundingBox implements Hittable
func (t *Translate) BoundingBox() core.AABB {
	return t.bbox
}

// RotateY rotates a hittable about the world Y axis
type RotateY struct {
	Object Hittable
	Angle  float64 // Degrees

	toWorld  mgl64.Mat3
	toObject mgl64.Mat3
	bbox     core.AABB
}

// NewRotateY wraps object so that it appears rotated by angle degrees about the Y axis
func NewRotateY(object Hittable, angle float64) *RotateY {
	toWorld := mgl64.Rotate3DY(core.DegreesToRadians(angle))
	r := &RotateY{
		Object:   object,
		Angle:    angle,
		toWorld:  toWorld,
		toObject: toWorld.Transpose(),
	}

	box := object.BoundingBox()
	if box.IsEmpty() {
		r.bbox = core.EmptyAABB
		return r
	}

	// Bounds of the 8 rotated corners
	min := core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	max := core.NewVec3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				corner := core.NewVec3(
					pick(i, box.X),
					pick(j, box.Y),
					pick(k, box.Z),
				)
				rotated := r.rotate(toWorld, corner)
				min = core.NewVec3(math.Min(min.X, rotated.X), math.Min(min.Y, rotated.Y), math.Min(min.Z, rotated.Z))
				max = core.NewVec3(math.Max(max.X, rotated.X), math.Max(max.Y, rotated.Y), math.Max(max.Z, rotated.Z))
			}
		}
	}
	r.bbox = core.NewAABBFromPoints(min, max)

	return r
}

func pick(i int, interval core.Interval) float64 {
	if i == 1 {
		return interval.Max
	}
	return interval.Min
}

func (r *RotateY) rotate(m mgl64.Mat3, v core.Vec3) core.Vec3 {
	return fromMgl(m.Mul3x1(toMgl(v)))
}

// Hit rotates the ray into object space, intersects, then rotates the hit back to world space
func (r *RotateY) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	rotated := core.NewRayAtTime(
		r.rotate(r.toObject, ray.Origin),
		r.rotate(r.toObject, ray.Direction),
		ray.Time,
	)

	if !r.Object.Hit(rotated, rayT, rec, random) {
		return false
	}

	rec.Point = r.rotate(r.toWorld, rec.Point)
	rec.Normal = r.rotate(r.toWorld, rec.Normal)
	return true
}

// BoundingBox implements Hittable
func (r *RotateY) BoundingBox() core.AABB {
	return r.bbox
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
