package material

import (
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Texture provides a color for a surface point given its UV coordinates and position
type Texture interface {
	Value(u, v float64, p core.Vec3) core.Vec3
}

// SolidColor is a uniform color texture
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Value implements Texture
func (s *SolidColor) Value(u, v float64, p core.Vec3) core.Vec3 {
	return s.Color
}

// CheckerTexture alternates between two textures in a grid over UV space
type CheckerTexture struct {
	Scale float64 // Number of squares per unit of U and V
	Even  Texture
	Odd   Texture
}

// NewCheckerTexture creates a checker texture alternating two solid colors
func NewCheckerTexture(scale float64, even, odd core.Vec3) *CheckerTexture {
	return &CheckerTexture{
		Scale: scale,
		Even:  NewSolidColor(even),
		Odd:   NewSolidColor(odd),
	}
}

// Value implements Texture
func (c *CheckerTexture) Value(u, v float64, p core.Vec3) core.Vec3 {
	uInt := int(math.Floor(u * c.Scale))
	vInt := int(math.Floor(v * c.Scale))
	if (uInt+vInt)%2 == 0 {
		return c.Even.Value(u, v, p)
	}
	return c.Odd.Value(u, v, p)
}
