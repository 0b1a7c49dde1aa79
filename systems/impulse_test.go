package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestComputeImpulse(t *testing.T) {
	f := newFixture(t)
	base := f.tuning.BaselineMass

	tests := []struct {
		name     string
		steer    Steer
		yaw      float32
		velocity mgl32.Vec3
		mass     float32
		want     mgl32.Vec3
	}{
		{"forward at rest", Steer{Forward: true}, 0, mgl32.Vec3{}, base, mgl32.Vec3{0, 0, 1}},
		{"heavier pushes harder", Steer{Forward: true}, 0, mgl32.Vec3{}, base + 10, mgl32.Vec3{0, 0, 2}},
		{"camera yaw rotates push", Steer{Forward: true}, math.Pi / 2, mgl32.Vec3{}, base, mgl32.Vec3{1, 0, 0}},
		{"opposite keys cancel", Steer{Left: true, Right: true}, 0, mgl32.Vec3{}, base, mgl32.Vec3{}},
		{"capped at max speed", Steer{Left: true}, 0, mgl32.Vec3{27.5, 0, 0}, base, mgl32.Vec3{0.5, 0, 0}},
		{"vertical speed lowers cap", Steer{Left: true}, 0, mgl32.Vec3{20, 8, 0}, base, mgl32.Vec3{}},
		{"over cap brakes", Steer{}, 0, mgl32.Vec3{30, 0, 0}, base, mgl32.Vec3{-2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeImpulse(tt.steer.Direction(), tt.yaw, tt.velocity, tt.mass, f.tuning)
			if got.Sub(tt.want).Len() > 1e-4 {
				t.Errorf("ComputeImpulse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInputSystemWritesImpulse(t *testing.T) {
	f := newFixture(t)
	klod := f.spawnKlod(t, mgl32.Vec3{})
	sys := NewInputSystem(f.m, f.roster, f.tuning)

	sys.Update(Steer{Forward: true}, 0)

	if got := f.m.Impulse.Get(klod).Linear; got.Sub(mgl32.Vec3{0, 0, 1}).Len() > 1e-4 {
		t.Errorf("impulse = %v, want (0,0,1)", got)
	}
}
