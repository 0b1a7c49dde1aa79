package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

const testDT = float32(1.0 / 60)

func TestPhysicsRestsOnGround(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	c := f.addCandidate(mgl32.Vec3{0, 0.3, 0}, 1, components.PowerNone)

	for i := 0; i < 120; i++ {
		phys.Step(testDT)
	}

	y := f.m.Transform.Get(c).Translation.Y()
	if math.Abs(float64(y-0.3)) > 0.02 {
		t.Errorf("resting height = %v, want ~0.3", y)
	}
	if !phys.HasActiveContact(c) {
		t.Error("resting body should report a ground contact")
	}
}

func TestPhysicsFallingHasNoContact(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	c := f.addCandidate(mgl32.Vec3{0, 10, 0}, 1, components.PowerNone)

	phys.Step(testDT)

	if phys.HasActiveContact(c) {
		t.Error("body in mid-air reported a contact")
	}
	if vy := f.m.Velocity.Get(c).Linear.Y(); vy >= 0 {
		t.Errorf("vertical velocity = %v, want falling", vy)
	}
}

func TestPhysicsLimbCandidateContact(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	klod := f.spawnKlod(t, mgl32.Vec3{0, 1, 0})
	f.m.Velocity.Get(klod).Linear = mgl32.Vec3{2, 0, 0}
	core := f.coreBall(t, klod)
	c := f.addCandidate(mgl32.Vec3{1.2, 1, 0}, 0.2, components.PowerNone)

	phys.Step(testDT)

	var found *ContactEvent
	for i, ev := range phys.Contacts() {
		if (ev.A == core && ev.B == c) || (ev.A == c && ev.B == core) {
			found = &phys.Contacts()[i]
		}
	}
	if found == nil {
		t.Fatalf("no contact between core ball and candidate in %+v", phys.Contacts())
	}
	if found.Force <= 0 {
		t.Errorf("contact force = %v, want > 0", found.Force)
	}
	if !phys.Touching(core, c) {
		t.Error("Touching(core, candidate) = false")
	}
}

func TestPhysicsSeparatesDynamicBodies(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	a := f.addCandidate(mgl32.Vec3{0, 0.3, 0}, 1, components.PowerNone)
	b := f.addCandidate(mgl32.Vec3{0.4, 0.3, 0}, 1, components.PowerNone)

	phys.Step(testDT)

	pa := f.m.Transform.Get(a).Translation
	pb := f.m.Transform.Get(b).Translation
	if d := pb.Sub(pa).Len(); d < 0.59 {
		t.Errorf("distance after step = %v, want >= 0.6", d)
	}
}

func TestPhysicsSensorDoesNotPush(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	zone := f.m.Spawn(components.FromTranslation(mgl32.Vec3{0, 2, 0}))
	f.m.Collider.Add(zone, &components.Collider{Shape: components.Cuboid(2, 2, 2)})
	f.m.Sensor.Add(zone, &components.Sensor{})
	c := f.addCandidate(mgl32.Vec3{0.5, 0.3, 0}, 1, components.PowerNone)

	phys.Step(testDT)

	if got := f.m.Transform.Get(c).Translation.X(); got != 0.5 {
		t.Errorf("x = %v, want unchanged 0.5", got)
	}
	if !phys.Touching(zone, c) {
		t.Error("sensor overlap not recorded")
	}
}

func TestPhysicsBoxFloor(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	floor := f.m.Spawn(components.FromTranslation(mgl32.Vec3{0, 4.5, 0}))
	f.m.Collider.Add(floor, &components.Collider{Shape: components.Cuboid(20, 0.5, 20)})
	f.m.RigidBody.Add(floor, &components.RigidBody{Kind: components.Fixed})
	c := f.addCandidate(mgl32.Vec3{3, 5.25, 3}, 1, components.PowerNone)

	for i := 0; i < 60; i++ {
		phys.Step(testDT)
	}

	y := f.m.Transform.Get(c).Translation.Y()
	if y < 5.2 || y > 5.4 {
		t.Errorf("height on raised floor = %v, want ~5.3", y)
	}
	if got := f.m.Transform.Get(floor).Translation; got != (mgl32.Vec3{0, 4.5, 0}) {
		t.Errorf("fixed floor moved to %v", got)
	}
}

func TestPhysicsAppliesImpulse(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	klod := f.spawnKlod(t, mgl32.Vec3{0, 1, 0})
	f.m.Impulse.Get(klod).Linear = mgl32.Vec3{f.tuning.BaselineMass, 0, 0}

	phys.Step(testDT)

	if vx := f.m.Velocity.Get(klod).Linear.X(); vx < 0.9 || vx > 1 {
		t.Errorf("vx = %v, want ~1 (impulse / mass, damped)", vx)
	}
	if got := f.m.Impulse.Get(klod).Linear; got != (mgl32.Vec3{}) {
		t.Errorf("impulse not cleared: %v", got)
	}
}

func TestFreeFall(t *testing.T) {
	f := newFixture(t)
	klod := f.spawnKlod(t, mgl32.Vec3{})
	core := f.coreBall(t, klod)
	sys := NewFreeFallSystem(f.m, f.roster)

	tests := []struct {
		name   string
		active map[ecs.Entity]bool
		want   bool
	}{
		{"no contacts", nil, true},
		{"core touching", map[ecs.Entity]bool{core: true}, false},
		{"only another body touching", map[ecs.Entity]bool{klod: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys.Update(&fakeContacts{active: tt.active})
			if got := f.m.FreeFall.Get(klod).Falling; got != tt.want {
				t.Errorf("Falling = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreeFallFromPhysics(t *testing.T) {
	f := newFixture(t)
	phys := NewPhysicsSystem(f.m, f.tuning)
	sys := NewFreeFallSystem(f.m, f.roster)
	klod := f.spawnKlod(t, mgl32.Vec3{0, 20, 0})

	phys.Step(testDT)
	sys.Update(phys)
	if !f.m.FreeFall.Get(klod).Falling {
		t.Error("klod high above ground should be falling")
	}

	f.klods.Teleport(components.FromTranslation(mgl32.Vec3{0, 1, 0}))
	phys.Step(testDT)
	sys.Update(phys)
	if f.m.FreeFall.Get(klod).Falling {
		t.Error("klod on the ground should not be falling")
	}
}
