package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

func mixedScene(random *rand.Rand) []Hittable {
	objects := randomSpheres(random, 150)
	for i := 0; i < 50; i++ {
		corner := core.RandomVec3(random, -10, 10)
		objects = append(objects, NewQuad(corner, core.RandomVec3(random, -2, 2), core.RandomVec3(random, -2, 2), testMaterial))
	}
	objects = append(objects,
		NewBox(core.NewVec3(-3, -3, -3), core.NewVec3(-1, 0, 2), testMaterial),
		NewRotateY(NewBox(core.NewVec3(0, 0, 0), core.NewVec3(2, 3, 1), testMaterial), 30),
		NewTranslate(NewSphere(core.Vec3{}, 1, testMaterial), core.NewVec3(4, 4, 4)),
	)
	return objects
}

func TestBVH_EquivalentToList(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	objects := mixedScene(random)

	bvh := NewBVH(objects)
	list := NewHittableList(objects...)

	for i := 0; i < 5000; i++ {
		ray := randomRay(random)

		var bvhRec, listRec material.HitRecord
		bvhHit := bvh.Hit(ray, defaultRayT(), &bvhRec, nil)
		listHit := list.Hit(ray, defaultRayT(), &listRec, nil)

		if bvhHit != listHit {
			t.Fatalf("Ray %d %+v: BVH hit=%v, list hit=%v", i, ray, bvhHit, listHit)
		}
		if bvhHit && math.Abs(bvhRec.T-listRec.T) > 1e-9 {
			t.Fatalf("Ray %d: BVH t=%f, list t=%f", i, bvhRec.T, listRec.T)
		}
	}
}

func TestBVH_BoundingBoxCoversObjects(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	objects := randomSpheres(random, 40)
	bvh := NewBVH(objects)

	expected := NewHittableList(objects...).BoundingBox()
	if bvh.BoundingBox() != expected {
		t.Errorf("Expected root bounds %+v, got %+v", expected, bvh.BoundingBox())
	}
}

func TestBVH_SingleAndEmpty(t *testing.T) {
	empty := NewBVH(nil)
	var rec material.HitRecord
	if empty.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), defaultRayT(), &rec, nil) {
		t.Error("Empty BVH should never hit")
	}
	if !empty.BoundingBox().IsEmpty() {
		t.Error("Empty BVH should have an empty bounding box")
	}

	sphere := NewSphere(core.NewVec3(0, 0, -3), 1, testMaterial)
	single := NewBVH([]Hittable{sphere})
	if single.Left != single.Right {
		t.Error("Single-object leaf should reference the object on both sides")
	}
	if !single.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), defaultRayT(), &rec, nil) {
		t.Fatal("Expected hit on single-object BVH")
	}
	if math.Abs(rec.T-2) > 1e-9 {
		t.Errorf("Expected t=2, got %f", rec.T)
	}
}

func TestBVH_DoesNotReorderInput(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	objects := randomSpheres(random, 20)
	original := make([]Hittable, len(objects))
	copy(original, objects)

	NewBVH(objects)

	for i := range objects {
		if objects[i] != original[i] {
			t.Fatalf("Input slice reordered at index %d", i)
		}
	}
}

func TestBVH_Deterministic(t *testing.T) {
	objects := []Hittable{}
	// Identical bounds on every axis exercise the tie-break rules
	for i := 0; i < 9; i++ {
		objects = append(objects, NewSphere(core.NewVec3(float64(i%3), float64(i/3), 0), 0.4, testMaterial))
	}

	a := NewBVH(objects)
	b := NewBVH(objects)
	if !sameTree(a, b) {
		t.Error("Building twice from the same input produced different trees")
	}
}

func sameTree(a, b Hittable) bool {
	na, okA := a.(*BVHNode)
	nb, okB := b.(*BVHNode)
	if okA != okB {
		return false
	}
	if !okA {
		return a == b
	}
	return sameTree(na.Left, nb.Left) && sameTree(na.Right, nb.Right)
}

func TestBVH_HitsDegeneratePrimitivesSafely(t *testing.T) {
	objects := []Hittable{
		NewSphere(core.NewVec3(0, 0, -5), -1, testMaterial),
		NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(1, 0, 0), testMaterial),
		NewSphere(core.NewVec3(0, 0, -5), 1, testMaterial),
	}
	bvh := NewBVH(objects)

	var rec material.HitRecord
	if !bvh.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), defaultRayT(), &rec, nil) {
		t.Fatal("Expected hit on the valid sphere")
	}
	if math.Abs(rec.T-4) > 1e-9 {
		t.Errorf("Expected t=4, got %f", rec.T)
	}
}
