package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is an entity's pose relative to its parent (or the world for roots).
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Velocity represents an entity's linear and angular velocity.
type Velocity struct {
	Linear  mgl32.Vec3
	Angular mgl32.Vec3
}

// Impulse is a one-tick linear impulse applied by the physics step and then cleared.
type Impulse struct {
	Linear mgl32.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// FromTranslation returns an unrotated, unscaled transform at v.
func FromTranslation(v mgl32.Vec3) Transform {
	t := Identity()
	t.Translation = v
	return t
}

// Mat4 returns the affine matrix T * R * S.
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.Elem()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}

// Compose returns child expressed in the space that t is expressed in,
// treating t as the parent. Exact for uniform scale.
func (t Transform) Compose(child Transform) Transform {
	scaled := mgl32.Vec3{
		t.Scale.X() * child.Translation.X(),
		t.Scale.Y() * child.Translation.Y(),
		t.Scale.Z() * child.Translation.Z(),
	}
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(scaled)),
		Rotation:    t.Rotation.Mul(child.Rotation),
		Scale: mgl32.Vec3{
			t.Scale.X() * child.Scale.X(),
			t.Scale.Y() * child.Scale.Y(),
			t.Scale.Z() * child.Scale.Z(),
		},
	}
}

// RelativeTo expresses t in reference's local space: inverse(reference) * t,
// decomposed back into translation, rotation and scale.
func (t Transform) RelativeTo(reference Transform) Transform {
	return FromMat4(reference.Mat4().Inv().Mul4(t.Mat4()))
}

// FromMat4 decomposes an affine matrix without shear.
// A negative determinant is folded into the X scale.
func FromMat4(m mgl32.Mat4) Transform {
	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()

	sx, sy, sz := c0.Len(), c1.Len(), c2.Len()
	if m.Mat3().Det() < 0 {
		sx = -sx
	}

	rot := mgl32.QuatIdent()
	if sx != 0 && sy != 0 && sz != 0 {
		r := mgl32.Mat4FromCols(
			c0.Mul(1/sx).Vec4(0),
			c1.Mul(1/sy).Vec4(0),
			c2.Mul(1/sz).Vec4(0),
			mgl32.Vec4{0, 0, 0, 1},
		)
		rot = mgl32.Mat4ToQuat(r).Normalize()
	}

	return Transform{
		Translation: m.Col(3).Vec3(),
		Rotation:    rot,
		Scale:       mgl32.Vec3{sx, sy, sz},
	}
}

// ApproxEqual reports whether two transforms match within eps.
// Rotations q and -q are treated as equal.
func (t Transform) ApproxEqual(o Transform, eps float32) bool {
	if t.Translation.Sub(o.Translation).Len() > eps {
		return false
	}
	if t.Scale.Sub(o.Scale).Len() > eps {
		return false
	}
	d := t.Rotation.Normalize().Dot(o.Rotation.Normalize())
	return float32(math.Abs(float64(d))) > 1-eps
}
