package components

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies a collision shape variant.
type ShapeKind uint8

const (
	ShapeBall ShapeKind = iota
	ShapeCuboid
	ShapeCapsule
	ShapeCylinder
	ShapeCone
	ShapeRoundCuboid
	ShapeRoundCylinder
	ShapeRoundCone
)

var shapeKindNames = [...]string{
	"ball", "cuboid", "capsule", "cylinder", "cone",
	"round_cuboid", "round_cylinder", "round_cone",
}

// String returns the level-file name of the shape kind.
func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return "unknown"
}

// ParseShapeKind converts a level-file name into a ShapeKind.
func ParseShapeKind(s string) (ShapeKind, error) {
	for i, name := range shapeKindNames {
		if name == s {
			return ShapeKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape kind %q", s)
}

// Shape is a collision primitive. Capsules, cylinders and cones are aligned
// with the local Y axis. Round variants inflate the base shape by BorderRadius.
type Shape struct {
	Kind         ShapeKind
	Radius       float32
	HalfExtents  mgl32.Vec3
	HalfHeight   float32
	BorderRadius float32
}

// Ball returns a sphere of radius r.
func Ball(r float32) Shape {
	return Shape{Kind: ShapeBall, Radius: r}
}

// Cuboid returns a box with the given half extents.
func Cuboid(hx, hy, hz float32) Shape {
	return Shape{Kind: ShapeCuboid, HalfExtents: mgl32.Vec3{hx, hy, hz}}
}

// Capsule returns a Y-aligned capsule.
func Capsule(halfHeight, r float32) Shape {
	return Shape{Kind: ShapeCapsule, HalfHeight: halfHeight, Radius: r}
}

// Cylinder returns a Y-aligned cylinder.
func Cylinder(halfHeight, r float32) Shape {
	return Shape{Kind: ShapeCylinder, HalfHeight: halfHeight, Radius: r}
}

// Cone returns a Y-aligned cone.
func Cone(halfHeight, r float32) Shape {
	return Shape{Kind: ShapeCone, HalfHeight: halfHeight, Radius: r}
}

// BoundingRadius returns the radius of a sphere centered on the shape origin
// that encloses the shape.
func (s Shape) BoundingRadius() float32 {
	switch s.Kind {
	case ShapeBall:
		return s.Radius
	case ShapeCuboid:
		return s.HalfExtents.Len()
	case ShapeCapsule:
		return s.HalfHeight + s.Radius
	case ShapeCylinder, ShapeCone:
		return hypot(s.HalfHeight, s.Radius)
	case ShapeRoundCuboid:
		return s.HalfExtents.Len() + s.BorderRadius
	case ShapeRoundCylinder, ShapeRoundCone:
		return hypot(s.HalfHeight, s.Radius) + s.BorderRadius
	}
	return 0
}

// Scaled returns the shape with its dimensions multiplied by the largest
// component of scale.
func (s Shape) Scaled(scale mgl32.Vec3) Shape {
	f := float32(math.Max(math.Abs(float64(scale.X())), math.Max(math.Abs(float64(scale.Y())), math.Abs(float64(scale.Z())))))
	s.Radius *= f
	s.HalfExtents = s.HalfExtents.Mul(f)
	s.HalfHeight *= f
	s.BorderRadius *= f
	return s
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeBall:
		return fmt.Sprintf("ball r=%.2f", s.Radius)
	case ShapeCuboid, ShapeRoundCuboid:
		return fmt.Sprintf("%s %.2fx%.2fx%.2f", s.Kind, s.HalfExtents[0], s.HalfExtents[1], s.HalfExtents[2])
	}
	return fmt.Sprintf("%s h=%.2f r=%.2f", s.Kind, s.HalfHeight, s.Radius)
}

func hypot(a, b float32) float32 {
	return float32(math.Hypot(float64(a), float64(b)))
}
