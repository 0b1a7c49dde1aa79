package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/klod/components"
)

// Steer is the player's directional input for one tick.
type Steer struct {
	Forward, Back, Left, Right bool
}

// Direction returns the unnormalized steering vector in camera space.
// Forward is +Y and Left is +X.
func (st Steer) Direction() mgl32.Vec2 {
	var d mgl32.Vec2
	if st.Forward {
		d = d.Add(mgl32.Vec2{0, 1})
	}
	if st.Back {
		d = d.Add(mgl32.Vec2{0, -1})
	}
	if st.Left {
		d = d.Add(mgl32.Vec2{1, 0})
	}
	if st.Right {
		d = d.Add(mgl32.Vec2{-1, 0})
	}
	return d
}

// ComputeImpulse returns the horizontal impulse for a steering direction.
// The push grows with absorbed mass, is rotated into world space by the
// camera yaw, and the resulting horizontal velocity is capped at
// MaxSpeed minus the vertical velocity.
func ComputeImpulse(dir mgl32.Vec2, camYaw float32, velocity mgl32.Vec3, mass float32, t Tuning) mgl32.Vec3 {
	force := t.BaseImpulse + (mass-t.BaselineMass)*t.ImpulsePerMass
	push := rotate2D(dir.Mul(force), -camYaw)
	horizontal := mgl32.Vec2{velocity.X(), velocity.Z()}
	limited := clampLength(horizontal.Add(push), t.MaxSpeed-velocity.Y()).Sub(horizontal)
	return mgl32.Vec3{limited.X(), 0, limited.Y()}
}

// InputSystem turns steering into the klod's per-tick impulse.
type InputSystem struct {
	m      *Maps
	roster *Roster
	tuning Tuning
}

// NewInputSystem creates an input system.
func NewInputSystem(m *Maps, roster *Roster, tuning Tuning) *InputSystem {
	return &InputSystem{m: m, roster: roster, tuning: tuning}
}

// Update writes the klod's Impulse for this tick.
func (s *InputSystem) Update(steer Steer, camYaw float32) {
	klod, ok := s.roster.Klod()
	if !ok || !s.m.Impulse.Has(klod) {
		return
	}
	var vel mgl32.Vec3
	if s.m.Velocity.Has(klod) {
		vel = s.m.Velocity.Get(klod).Linear
	}
	mass := s.m.Klod.Get(klod).Mass
	*s.m.Impulse.Get(klod) = components.Impulse{
		Linear: ComputeImpulse(steer.Direction(), camYaw, vel, mass, s.tuning),
	}
}
