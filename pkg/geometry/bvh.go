package geometry

import (
	"math/rand"
	"sort"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// BVHNode is an interior node of a bounding volume hierarchy.
// A node over a single object references it as both children.
type BVHNode struct {
	Left  Hittable
	Right Hittable
	bbox  core.AABB
}

// NewBVH builds a hierarchy over objects. The input slice is not modified.
func NewBVH(objects []Hittable) *BVHNode {
	if len(objects) == 0 {
		return &BVHNode{bbox: core.EmptyAABB}
	}

	// Sorting happens in place, so work on a copy
	objectsCopy := make([]Hittable, len(objects))
	copy(objectsCopy, objects)

	return buildBVH(objectsCopy)
}

// buildBVH splits objects at the median along the longest axis of their combined bounds.
// Objects are ordered by the minimum of their bounds on that axis; the sort is stable and
// LongestAxis prefers the later axis on ties, so equal inputs always build equal trees.
func buildBVH(objects []Hittable) *BVHNode {
	bbox := core.EmptyAABB
	for _, object := range objects {
		bbox = bbox.Union(object.BoundingBox())
	}

	node := &BVHNode{bbox: bbox}

	switch len(objects) {
	case 1:
		node.Left = objects[0]
		node.Right = objects[0]
	case 2:
		node.Left = objects[0]
		node.Right = objects[1]
	default:
		axis := bbox.LongestAxis()
		sort.SliceStable(objects, func(i, j int) bool {
			return objects[i].BoundingBox().AxisInterval(axis).Min < objects[j].BoundingBox().AxisInterval(axis).Min
		})

		mid := len(objects) / 2
		node.Left = buildBVH(objects[:mid])
		node.Right = buildBVH(objects[mid:])
	}

	return node
}

// Hit returns the closest hit in the subtree. The right child is only searched up to the
// left child's hit distance.
func (n *BVHNode) Hit(ray core.Ray, rayT core.Interval, rec *material.HitRecord, random *rand.Rand) bool {
	if n.Left == nil {
		return false
	}

	boxT := rayT
	if !n.bbox.Hit(ray, &boxT) {
		return false
	}

	hitLeft := n.Left.Hit(ray, rayT, rec, random)

	rightT := rayT
	if hitLeft {
		rightT.Max = rec.T
	}
	hitRight := n.Right.Hit(ray, rightT, rec, random)

	return hitLeft || hitRight
}

// BoundingBox implements Hittable
func (n *BVHNode) BoundingBox() core.AABB {
	return n.bbox
}
