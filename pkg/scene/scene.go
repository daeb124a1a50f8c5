package scene

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// It is immutable once built and may be read by every worker concurrently.
type Scene struct {
	Name   string
	World  geometry.Hittable      // Root of the scene, usually a list wrapping one BVH
	Lights *geometry.HittableList // Emissive geometry for light sampling, aliases objects in World
	Camera CameraParams
}

// Options controls how built-in scenes are assembled
type Options struct {
	TexturePath string // Image used by the textures scene; a generated image is used when empty
	Seed        int64  // Seed for randomly placed objects and procedural textures
}

// DefaultOptions returns the options used by the CLI and web server
func DefaultOptions() Options {
	return Options{Seed: 42}
}

// builder assembles one built-in scene
type builder func(opts Options, random *rand.Rand) (*Scene, error)

// Build creates the built-in scene with the given ID
func Build(id string, opts Options) (*Scene, error) {
	entry, ok := lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", id, strings.Join(SceneIDs(), ", "))
	}

	random := rand.New(rand.NewSource(opts.Seed))
	s, err := entry.build(opts, random)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %s: %w", id, err)
	}
	s.Name = id
	if s.Lights == nil {
		s.Lights = geometry.NewHittableList()
	}
	if err := s.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s has invalid camera: %w", id, err)
	}
	return s, nil
}

// newScene wraps objects in a BVH, the way every built-in scene is stored
func newScene(objects []geometry.Hittable, lights *geometry.HittableList, camera CameraParams) *Scene {
	return &Scene{
		World:  geometry.NewHittableList(geometry.NewBVH(objects)),
		Lights: lights,
		Camera: camera,
	}
}

// PrimitiveCount returns the number of leaf primitives reachable from the world
func (s *Scene) PrimitiveCount() int {
	return countPrimitives(s.World)
}

func countPrimitives(h geometry.Hittable) int {
	switch obj := h.(type) {
	case *geometry.HittableList:
		count := 0
		for _, child := range obj.Objects {
			count += countPrimitives(child)
		}
		return count
	case *geometry.BVHNode:
		if obj.Left == nil {
			return 0
		}
		if obj.Left == obj.Right {
			return countPrimitives(obj.Left)
		}
		return countPrimitives(obj.Left) + countPrimitives(obj.Right)
	case *geometry.Box:
		return countPrimitives(obj.HittableList)
	case *geometry.Translate:
		return countPrimitives(obj.Object)
	case *geometry.RotateY:
		return countPrimitives(obj.Object)
	case *geometry.ConstantMedium:
		return countPrimitives(obj.Boundary)
	default:
		return 1
	}
}

// NewGroundQuad creates a horizontal square centered at the given point with its normal pointing up
func NewGroundQuad(center core.Vec3, size float64, mat material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,s) × (s,0,0) = (0,s²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}
