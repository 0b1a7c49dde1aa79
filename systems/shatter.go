package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// ShatterResult summarizes one shatter.
type ShatterResult struct {
	Klod        ecs.Entity
	Reason      ShatterReason
	MassBefore  float32
	Limbs       int
	Released    int
	Accessories int
}

// ShatterSystem atomizes the klod back into independent dynamic bodies.
type ShatterSystem struct {
	m      *Maps
	roster *Roster
	tuning Tuning
	queue  Queue[ShatterRequest]
}

// NewShatterSystem creates a shatter system.
func NewShatterSystem(m *Maps, roster *Roster, tuning Tuning) *ShatterSystem {
	return &ShatterSystem{m: m, roster: roster, tuning: tuning}
}

// Request enqueues a shatter.
func (s *ShatterSystem) Request(reason ShatterReason) {
	s.queue.Push(ShatterRequest{Reason: reason})
}

// Update drains the queue. Several requests in one tick shatter once.
func (s *ShatterSystem) Update() (ShatterResult, bool) {
	reqs := s.queue.Drain()
	if len(reqs) == 0 {
		return ShatterResult{}, false
	}
	return s.Shatter(reqs[0].Reason)
}

// releasedLimb is a limb's state captured before anything is mutated.
type releasedLimb struct {
	limb      ecs.Entity
	visual    ecs.Entity
	hasVisual bool
	world     components.Transform
	local     components.Transform
	collider  components.Collider
	mass      float32
	material  components.Material
}

type releasedAccessory struct {
	entity ecs.Entity
	world  components.Transform
	local  components.Transform
}

// Shatter releases every limb's visual and every accessory as dynamic debris
// flying outward from the klod, removes the limbs and ball visual and resets
// the klod to its baseline mass. No-op without a klod.
func (s *ShatterSystem) Shatter(reason ShatterReason) (ShatterResult, bool) {
	m := s.m
	klod, ok := s.roster.Klod()
	if !ok {
		return ShatterResult{}, false
	}

	var recoilBase components.Velocity
	if m.Velocity.Has(klod) {
		recoilBase = *m.Velocity.Get(klod)
		*m.Velocity.Get(klod) = components.Velocity{}
	}

	// Capture world poses while the hierarchy is still intact.
	limbs := s.roster.Limbs(klod)
	captured := make([]releasedLimb, 0, len(limbs))
	for _, limb := range limbs {
		l := m.Limb.Get(limb)
		r := releasedLimb{
			limb:      limb,
			visual:    l.Visual,
			hasVisual: l.HasVisual && m.Alive(l.Visual),
			world:     m.WorldTransform(limb),
			local:     m.LocalTransform(limb),
			material:  components.DefaultMaterial(),
		}
		if m.Collider.Has(limb) {
			r.collider = *m.Collider.Get(limb)
		}
		if m.Mass.Has(limb) {
			r.mass = m.Mass.Get(limb).Value
		}
		if m.Material.Has(limb) {
			r.material = *m.Material.Get(limb)
		}
		captured = append(captured, r)
	}

	accessories := s.roster.Accessories(klod)
	capturedAcc := make([]releasedAccessory, 0, len(accessories))
	for _, acc := range accessories {
		capturedAcc = append(capturedAcc, releasedAccessory{
			entity: acc,
			world:  m.WorldTransform(acc),
			local:  m.LocalTransform(acc),
		})
	}
	ballVisuals := s.roster.BallVisuals(klod)

	res := ShatterResult{
		Klod:        klod,
		Reason:      reason,
		MassBefore:  m.Klod.Get(klod).Mass,
		Limbs:       len(captured),
		Accessories: len(capturedAcc),
	}

	for _, r := range captured {
		m.Despawn(r.limb)
		if !r.hasVisual {
			continue
		}
		m.becomeDynamic(r.visual, r.world, debris{
			collider: r.collider,
			mass:     r.mass,
			material: r.material,
			velocity: components.Velocity{
				Linear: r.local.Translation.Mul(s.tuning.LimbRecoil).Add(recoilBase.Linear),
			},
		})
		res.Released++
	}

	for _, a := range capturedAcc {
		m.becomeDynamic(a.entity, a.world, debris{
			collider: components.Collider{Shape: components.Cuboid(s.tuning.AccessoryHalf.Elem())},
			mass:     s.tuning.AccessoryMass,
			material: components.DefaultMaterial(),
			velocity: components.Velocity{
				Linear:  a.local.Translation.Mul(s.tuning.AccessoryRecoil).Add(recoilBase.Linear),
				Angular: recoilBase.Angular,
			},
		})
	}

	for _, bv := range ballVisuals {
		m.DespawnRecursive(bv)
	}

	m.Klod.Get(klod).Mass = s.tuning.BaselineMass

	slog.Info("klod shattered",
		"reason", reason.String(),
		"mass", res.MassBefore,
		"limbs", res.Limbs,
		"released", res.Released,
		"accessories", res.Accessories,
	)
	return res, true
}
