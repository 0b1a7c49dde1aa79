package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clampLength scales v down so its length does not exceed max.
// A non-positive max yields the zero vector.
func clampLength(v mgl32.Vec2, max float32) mgl32.Vec2 {
	if max <= 0 {
		return mgl32.Vec2{}
	}
	l := v.Len()
	if l > max {
		return v.Mul(max / l)
	}
	return v
}

// rotate2D rotates v counter-clockwise by angle radians.
func rotate2D(v mgl32.Vec2, angle float32) mgl32.Vec2 {
	s, c := math.Sincos(float64(angle))
	return mgl32.Vec2{
		float32(c)*v.X() - float32(s)*v.Y(),
		float32(s)*v.X() + float32(c)*v.Y(),
	}
}

// integrateRotation advances q by angular velocity w over dt.
func integrateRotation(q mgl32.Quat, w mgl32.Vec3, dt float32) mgl32.Quat {
	speed := w.Len()
	if speed < 1e-6 {
		return q
	}
	return mgl32.QuatRotate(speed*dt, w.Mul(1/speed)).Mul(q).Normalize()
}
