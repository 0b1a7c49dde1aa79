package systems

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// Follower is a camera that can be pointed at the klod.
type Follower interface {
	Follow(target ecs.Entity)
}

// accessoryDirections are the six hand parts' outward directions.
var accessoryDirections = [6]mgl32.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// KlodSystem creates, resets and removes the klod.
type KlodSystem struct {
	m      *Maps
	roster *Roster
	tuning Tuning
}

// NewKlodSystem creates a klod lifecycle system.
func NewKlodSystem(m *Maps, roster *Roster, tuning Tuning) *KlodSystem {
	return &KlodSystem{m: m, roster: roster, tuning: tuning}
}

// Spawn creates the klod at the given pose and points cam at it.
// It returns false without doing anything when cam is nil or a klod
// already exists.
func (s *KlodSystem) Spawn(cam Follower, at components.Transform) (ecs.Entity, bool) {
	if cam == nil {
		slog.Debug("klod spawn skipped: no camera")
		return ecs.Entity{}, false
	}
	if e, ok := s.roster.Klod(); ok {
		return e, false
	}

	m := s.m
	klod := m.Spawn(at)
	m.Klod.Add(klod, &components.Klod{Mass: s.tuning.BaselineMass})
	m.Velocity.Add(klod, &components.Velocity{})
	m.Impulse.Add(klod, &components.Impulse{})
	m.RigidBody.Add(klod, &components.RigidBody{Kind: components.Dynamic})
	m.FreeFall.Add(klod, &components.FreeFall{})
	m.Name.Add(klod, &components.Name{Value: "Klod"})

	s.build(klod)
	cam.Follow(klod)

	slog.Info("klod spawned", "entity", klod.ID(), "mass", s.tuning.BaselineMass)
	return klod, true
}

// build attaches the core ball limb, the hand accessories and the ball visual.
func (s *KlodSystem) build(klod ecs.Entity) {
	m := s.m

	ball := m.Spawn(components.Identity())
	m.SetParent(ball, klod)
	m.Limb.Add(ball, &components.Limb{Klod: klod})
	m.KlodBall.Add(ball, &components.KlodBall{})
	m.Collider.Add(ball, &components.Collider{Shape: components.Ball(s.tuning.InitialRadius)})
	m.Mass.Add(ball, &components.Mass{Value: s.tuning.BaselineMass})
	m.Material.Add(ball, &components.Material{Friction: 0.5})
	m.Power.Add(ball, new(components.Power))
	m.Body.Add(ball, &components.Body{State: components.BodyLimb})
	m.Name.Add(ball, &components.Name{Value: "Klod core"})

	up := mgl32.Vec3{0, 1, 0}
	for _, dir := range accessoryDirections {
		target := dir.Mul(s.tuning.InitialRadius * 0.8)
		acc := m.Spawn(components.Transform{
			Translation: target.Mul(10),
			Rotation:    mgl32.QuatBetweenVectors(up, dir),
			Scale:       mgl32.Vec3{1, 1, 1}.Mul(s.tuning.AccessoryScale),
		})
		m.SetParent(acc, klod)
		m.Accessory.Add(acc, &components.Accessory{})
		m.Body.Add(acc, &components.Body{State: components.BodyAccessory})
		m.SceneHandle.Add(acc, &components.SceneHandle{Path: s.tuning.AccessoryAsset})
		m.Name.Add(acc, &components.Name{Value: "HandPart"})
		m.Animate.Add(acc, &components.Animate{Kind: components.AnimateMoveToward, Target: target, Speed: 10})
	}

	visual := m.Spawn(components.Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{0.01, 0.01, 0.01},
	})
	m.SetParent(visual, klod)
	m.BallVisual.Add(visual, &components.BallVisual{})
	m.SceneHandle.Add(visual, &components.SceneHandle{Path: s.tuning.BallAsset})
	m.Name.Add(visual, &components.Name{Value: "Klod ball scene"})
	m.Animate.Add(visual, &components.Animate{Kind: components.AnimateResizeTo, Target: mgl32.Vec3{1, 1, 1}, Speed: 1})
}

// Reset returns the klod to its freshly spawned state at the given pose.
// Leftover limbs are removed together with their visuals.
func (s *KlodSystem) Reset(at components.Transform) bool {
	klod, ok := s.roster.Klod()
	if !ok {
		return false
	}
	m := s.m

	for _, limb := range s.roster.Limbs(klod) {
		l := *m.Limb.Get(limb)
		if l.HasVisual {
			m.DespawnRecursive(l.Visual)
		}
		m.DespawnRecursive(limb)
	}
	for _, acc := range s.roster.Accessories(klod) {
		m.DespawnRecursive(acc)
	}
	for _, bv := range s.roster.BallVisuals(klod) {
		m.DespawnRecursive(bv)
	}

	*m.Transform.Get(klod) = at
	*m.Velocity.Get(klod) = components.Velocity{}
	*m.Impulse.Get(klod) = components.Impulse{}
	*m.FreeFall.Get(klod) = components.FreeFall{}
	m.Klod.Get(klod).Mass = s.tuning.BaselineMass

	s.build(klod)
	slog.Info("klod reset", "entity", klod.ID())
	return true
}

// Despawn removes the klod and everything parented to it.
func (s *KlodSystem) Despawn() bool {
	klod, ok := s.roster.Klod()
	if !ok {
		return false
	}
	s.m.DespawnRecursive(klod)
	slog.Info("klod despawned", "entity", klod.ID())
	return true
}

// Teleport snaps the klod to a pose and stops it.
func (s *KlodSystem) Teleport(at components.Transform) {
	klod, ok := s.roster.Klod()
	if !ok {
		return
	}
	*s.m.Transform.Get(klod) = at
	*s.m.Velocity.Get(klod) = components.Velocity{}
}
