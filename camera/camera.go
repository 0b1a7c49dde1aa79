package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Pitch limits in radians, measured from straight up.
const (
	MinPitch = 0.3
	MaxPitch = math.Pi / 2
)

// Camera is an orbit camera that circles a followed entity.
type Camera struct {
	Target   mgl32.Vec3 // Point the camera looks at
	Yaw      float32    // Horizontal angle in radians, 0 looks along +Z
	Pitch    float32    // Angle from the vertical in radians
	Distance float32
	YawSpeed float32 // Radians per second at full input
	Fovy     float32 // Vertical field of view in degrees

	MinDistance, MaxDistance float32

	// Locked cameras ignore rotation and zoom input.
	Locked bool

	follows   ecs.Entity
	following bool
}

// New creates a camera at the given distance whose eye sits height above
// the target.
func New(distance, height, yawSpeed, fovy float32) *Camera {
	if distance <= 0 {
		distance = 1
	}
	pitch := float32(math.Acos(float64(clamp(height/distance, -1, 1))))
	return &Camera{
		Yaw:         0,
		Pitch:       clamp(pitch, MinPitch, MaxPitch),
		Distance:    distance,
		YawSpeed:    yawSpeed,
		Fovy:        fovy,
		MinDistance: distance * 0.25,
		MaxDistance: distance * 4,
	}
}

// Follow points the camera at target.
func (c *Camera) Follow(target ecs.Entity) {
	c.follows = target
	c.following = true
}

// Unfollow stops following any entity. The target stays where it was.
func (c *Camera) Unfollow() {
	c.follows = ecs.Entity{}
	c.following = false
}

// Following returns the followed entity, if any.
func (c *Camera) Following() (ecs.Entity, bool) {
	return c.follows, c.following
}

// HorizontalRotation returns the yaw wrapped to [0, 2π).
func (c *Camera) HorizontalRotation() float32 {
	return mod(c.Yaw, 2*math.Pi)
}

// Lock freezes the camera's orientation.
func (c *Camera) Lock() { c.Locked = true }

// Unlock lets input rotate the camera again.
func (c *Camera) Unlock() { c.Locked = false }

// Rotate turns the camera by yaw input (-1..1) over dt seconds and tilts
// it by pitchDelta radians.
func (c *Camera) Rotate(yawInput, pitchDelta, dt float32) {
	if c.Locked {
		return
	}
	c.Yaw = mod(c.Yaw+yawInput*c.YawSpeed*dt, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+pitchDelta, MinPitch, MaxPitch)
}

// Update moves the look-at point to the followed entity's position.
func (c *Camera) Update(target mgl32.Vec3) {
	c.Target = target
}

// Offset returns the eye position relative to the target.
func (c *Camera) Offset() mgl32.Vec3 {
	sp, cp := sincos(c.Pitch)
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec3{-sp * sy, cp, -sp * cy}.Mul(c.Distance)
}

// Position returns the eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.Target.Add(c.Offset())
}

// Forward returns the horizontal unit direction the camera faces.
func (c *Camera) Forward() mgl32.Vec3 {
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec3{sy, 0, cy}
}

// ZoomBy scales the orbit distance.
func (c *Camera) ZoomBy(factor float32) {
	if c.Locked {
		return
	}
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// IsVisible reports whether a sphere lies inside the view cone.
func (c *Camera) IsVisible(p mgl32.Vec3, radius float32) bool {
	eye := c.Position()
	view := c.Target.Sub(eye)
	toP := p.Sub(eye)
	dist := toP.Len()
	if dist <= radius {
		return true
	}
	viewLen := view.Len()
	if viewLen == 0 {
		return true
	}
	cos := view.Dot(toP) / (viewLen * dist)
	// Half the diagonal field of view, widened by the sphere's angular size.
	half := float64(c.Fovy) * math.Pi / 180 * 0.75
	half += math.Asin(math.Min(1, float64(radius/dist)))
	if half >= math.Pi {
		return true
	}
	return float64(cos) >= math.Cos(half)
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// mod returns x modulo m, always non-negative.
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts x to [min, max].
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
