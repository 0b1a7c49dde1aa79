package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/config"
)

// fakeCamera records Follow calls.
type fakeCamera struct {
	target ecs.Entity
	calls  int
}

func (c *fakeCamera) Follow(e ecs.Entity) {
	c.target = e
	c.calls++
}

// fakeContacts is a ContactSource with fixed results.
type fakeContacts struct {
	events []ContactEvent
	active map[ecs.Entity]bool
}

func (f *fakeContacts) Contacts() []ContactEvent { return f.events }

func (f *fakeContacts) HasActiveContact(e ecs.Entity) bool { return f.active[e] }

type fixture struct {
	m         *Maps
	roster    *Roster
	tuning    Tuning
	klods     *KlodSystem
	absorb    *AbsorbSystem
	shatter   *ShatterSystem
	obstacles *ObstacleSystem
	cam       *fakeCamera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	tuning := TuningFromConfig(cfg)

	m := NewMaps(ecs.NewWorld())
	roster := NewRoster(m)
	return &fixture{
		m:         m,
		roster:    roster,
		tuning:    tuning,
		klods:     NewKlodSystem(m, roster, tuning),
		absorb:    NewAbsorbSystem(m, roster, tuning),
		shatter:   NewShatterSystem(m, roster, tuning),
		obstacles: NewObstacleSystem(m, roster),
		cam:       &fakeCamera{},
	}
}

func (f *fixture) spawnKlod(t *testing.T, at mgl32.Vec3) ecs.Entity {
	t.Helper()
	klod, ok := f.klods.Spawn(f.cam, components.FromTranslation(at))
	if !ok {
		t.Fatal("klod spawn failed")
	}
	return klod
}

// klodCount counts klod entities in the world.
func (f *fixture) klodCount() int {
	n := 0
	query := ecs.NewFilter1[components.Klod](f.m.World).Query()
	for query.Next() {
		n++
	}
	return n
}

// setMass overrides the klod's mass.
func (f *fixture) setMass(klod ecs.Entity, mass float32) {
	f.m.Klod.Get(klod).Mass = mass
}

func (f *fixture) addCandidate(pos mgl32.Vec3, weight float32, power components.Power) ecs.Entity {
	m := f.m
	e := m.Spawn(components.FromTranslation(pos))
	m.Agglomerable.Add(e, &components.Agglomerable{Weight: weight})
	m.Collider.Add(e, &components.Collider{Shape: components.Ball(0.3)})
	m.Material.Add(e, &components.Material{Friction: 0.7, Restitution: 0.2})
	m.Mass.Add(e, &components.Mass{Value: weight})
	m.Power.Add(e, &power)
	m.RigidBody.Add(e, &components.RigidBody{Kind: components.Dynamic})
	m.Velocity.Add(e, &components.Velocity{})
	m.Body.Add(e, &components.Body{State: components.BodyCandidate})
	return e
}

// absorbNow queues and applies a single request, failing unless it was accepted.
func (f *fixture) absorbNow(t *testing.T, klod, candidate ecs.Entity) AbsorbResult {
	t.Helper()
	f.absorb.Request(AbsorbRequest{Klod: klod, Candidate: candidate, Weight: f.m.Agglomerable.Get(candidate).Weight})
	results := f.absorb.Apply()
	if len(results) != 1 || !results[0].Accepted {
		t.Fatalf("absorb not accepted: %+v", results)
	}
	return results[0]
}

func (f *fixture) coreBall(t *testing.T, klod ecs.Entity) ecs.Entity {
	t.Helper()
	for _, limb := range f.roster.Limbs(klod) {
		if f.m.KlodBall.Has(limb) {
			return limb
		}
	}
	t.Fatal("klod has no core ball")
	return ecs.Entity{}
}

func approx(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}
