package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Hittable is anything a ray can intersect.
//
// Hit fills rec and returns true when the ray hits within rayT, strictly inside the interval.
// rec is only written on a hit. random may be nil; only participating media need it.
type Hittable interface {
	Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool
	BoundingBox() core.AABB
}

// HittableList is an unordered aggregate of hittables
type HittableList struct {
	Objects []Hittable
	bbox    core.AABB
}

// NewHittableList creates a list containing the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	list := &HittableList{bbox: core.EmptyAABB}
	for _, object := range objects {
		list.Add(object)
	}
	return list
}

// Add appends an object and grows the bounding box
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
	l.bbox = l.bbox.Union(object.BoundingBox())
}

// Len returns the number of objects in the list; a nil list is empty
func (l *HittableList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Objects)
}

// Hit returns the closest hit among all objects
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	hitAnything := false
	closestSoFar := rayT.Max

	var tempRec material.HitRecord
	for _, object := range l.Objects {
		if object.Hit(ray, core.Interval{Min: rayT.Min, Max: closestSoFar}, &tempRec, random) {
			hitAnything = true
			closestSoFar = tempRec.T
			*rec = tempRec
		}
	}

	return hitAnything
}

// BoundingBox implements Hittable
func (l *HittableList) BoundingBox() core.AABB {
	return l.bbox
}

// PDFValue averages the densities of all objects that can be sampled
func (l *HittableList) PDFValue(origin, direction core.Vec3) float64 {
	if len(l.Objects) == 0 {
		return 0
	}

	weight := 1.0 / float64(len(l.Objects))
	sum := 0.0
	for _, object := range l.Objects {
		if target, ok := object.(Sampleable); ok {
			sum += weight * target.PDFValue(origin, direction)
		} else {
			sum += weight * uniformSphereDensity
		}
	}
	return sum
}

// Random picks an object uniformly and samples a direction towards it
func (l *HittableList) Random(origin core.Vec3, random *rand.Rand) core.Vec3 {
	if len(l.Objects) == 0 {
		return core.NewVec3(1, 0, 0)
	}

	object := l.Objects[random.Intn(len(l.Objects))]
	if target, ok := object.(Sampleable); ok {
		return target.Random(origin, random)
	}
	return core.RandomUnitVector(random)
}

// uniformSphereDensity is the density used for objects that cannot be sampled directly
const uniformSphereDensity = 1.0 / (4.0 * math.Pi)

// Sampleable is a hittable that can be importance sampled as a light
type Sampleable interface {
	Hittable
	PDFValue(origin, direction core.Vec3) float64
	Random(origin core.Vec3, random *rand.Rand) core.Vec3
}
