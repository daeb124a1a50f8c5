package core

import "math"

// minAxisSize is the thinnest extent an AABB may have along any axis.
// Flat geometry (axis-aligned quads) would otherwise produce zero-thickness slabs.
const minAxisSize = 0.001

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB bounds nothing; every ray misses it and it is the identity for Union
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates an AABB from three axis intervals, padding any axis thinner than minAxisSize
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: x.PadTo(minAxisSize), Y: y.PadTo(minAxisSize), Z: z.PadTo(minAxisSize)}
}

// NewAABBFromPoints creates an AABB with the two points as opposite corners, in any order
func NewAABBFromPoints(a, b Vec3) AABB {
	return NewAABB(
		NewInterval(a.X, b.X),
		NewInterval(a.Y, b.Y),
		NewInterval(a.Z, b.Z),
	)
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return NewAABB(
		MergeIntervals(aabb.X, other.X),
		MergeIntervals(aabb.Y, other.Y),
		MergeIntervals(aabb.Z, other.Z),
	)
}

// Offset returns the AABB translated by offset
func (aabb AABB) Offset(offset Vec3) AABB {
	return AABB{X: aabb.X.Offset(offset.X), Y: aabb.Y.Offset(offset.Y), Z: aabb.Z.Offset(offset.Z)}
}

// AxisInterval returns the interval for axis 0 (X), 1 (Y) or 2 (Z)
func (aabb AABB) AxisInterval(axis int) Interval {
	switch axis {
	case 1:
		return aabb.Y
	case 2:
		return aabb.Z
	default:
		return aabb.X
	}
}

// IsEmpty reports whether the box bounds no points
func (aabb AABB) IsEmpty() bool {
	return aabb.X.IsEmpty() || aabb.Y.IsEmpty() || aabb.Z.IsEmpty()
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return NewVec3(aabb.X.Min, aabb.Y.Min, aabb.Z.Min)
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return NewVec3(aabb.X.Max, aabb.Y.Max, aabb.Z.Max)
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties go to the later axis: equal X and Y extents pick Y, equal Y and Z pick Z.
func (aabb AABB) LongestAxis() int {
	x, y, z := aabb.X.Size(), aabb.Y.Size(), aabb.Z.Size()
	if x > y {
		if x > z {
			return 0
		}
		return 2
	}
	if y > z {
		return 1
	}
	return 2
}

// Hit tests the ray against the box using the slab method. rayT is narrowed in place to the
// parametric range inside the box; the test stops as soon as that range becomes empty.
// A direction component of exactly zero places no constraint on that axis as long as the
// origin lies within the slab.
func (aabb AABB) Hit(ray Ray, rayT *Interval) bool {
	for axis := 0; axis < 3; axis++ {
		slab := aabb.AxisInterval(axis)
		if slab.IsEmpty() {
			return false
		}

		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		if direction == 0 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		rayT.Min = math.Max(rayT.Min, t0)
		rayT.Max = math.Min(rayT.Max, t1)

		if rayT.Max <= rayT.Min {
			return false
		}
	}

	return true
}
