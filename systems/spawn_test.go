package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/klod/components"
)

func TestSpawnIdempotent(t *testing.T) {
	f := newFixture(t)
	first := f.spawnKlod(t, mgl32.Vec3{})
	f.setMass(first, 9)

	second, created := f.klods.Spawn(f.cam, components.Identity())
	if created {
		t.Error("second Spawn reported creation")
	}
	if second != first {
		t.Errorf("second Spawn returned %v, want existing %v", second, first)
	}
	if got := f.klodCount(); got != 1 {
		t.Errorf("klod count = %d, want 1", got)
	}
	if got := f.m.Klod.Get(first).Mass; got != 9 {
		t.Errorf("mass = %v, want unchanged 9", got)
	}
	if f.cam.calls != 1 {
		t.Errorf("camera Follow calls = %d, want 1", f.cam.calls)
	}
}

func TestSpawnRequiresCamera(t *testing.T) {
	f := newFixture(t)
	if _, ok := f.klods.Spawn(nil, components.Identity()); ok {
		t.Error("Spawn without a camera should fail")
	}
	if got := f.klodCount(); got != 0 {
		t.Errorf("klod count = %d, want 0", got)
	}
}

func TestSpawnBuildsParts(t *testing.T) {
	f := newFixture(t)
	klod := f.spawnKlod(t, mgl32.Vec3{0, 2, 0})
	m := f.m

	if f.cam.target != klod {
		t.Error("camera not following the klod")
	}
	if got := m.Klod.Get(klod).Mass; got != f.tuning.BaselineMass {
		t.Errorf("mass = %v, want baseline", got)
	}

	limbs := f.roster.Limbs(klod)
	if len(limbs) != 1 || !m.KlodBall.Has(limbs[0]) {
		t.Fatalf("limbs = %v, want only the core ball", limbs)
	}
	if m.Limb.Get(limbs[0]).HasVisual {
		t.Error("core ball should have no visual")
	}
	if got := m.Collider.Get(limbs[0]).Shape.Radius; got != f.tuning.InitialRadius {
		t.Errorf("core radius = %v, want %v", got, f.tuning.InitialRadius)
	}

	accessories := f.roster.Accessories(klod)
	if len(accessories) != 6 {
		t.Fatalf("accessories = %d, want 6", len(accessories))
	}
	for _, acc := range accessories {
		anim := m.Animate.Get(acc)
		if anim.Kind != components.AnimateMoveToward {
			t.Errorf("accessory animation = %v, want MoveToward", anim.Kind)
		}
		if got := anim.Target.Len(); !approx(got, f.tuning.InitialRadius*0.8, 1e-5) {
			t.Errorf("accessory target distance = %v, want %v", got, f.tuning.InitialRadius*0.8)
		}
	}
	if got := len(f.roster.BallVisuals(klod)); got != 1 {
		t.Errorf("ball visuals = %d, want 1", got)
	}
}

func TestDespawnRemovesEverything(t *testing.T) {
	f := newFixture(t)
	klod := f.spawnKlod(t, mgl32.Vec3{})
	f.setMass(klod, 20)
	c := f.addCandidate(mgl32.Vec3{0.5, 0, 0}, 0.3, components.PowerNone)
	f.absorbNow(t, klod, c)
	accessories := f.roster.Accessories(klod)

	if !f.klods.Despawn() {
		t.Fatal("Despawn returned false")
	}
	if f.m.Alive(klod) || f.m.Alive(c) || f.m.Alive(accessories[0]) {
		t.Error("klod hierarchy survived despawn")
	}
	if f.klods.Despawn() {
		t.Error("second Despawn should be a no-op")
	}
}
