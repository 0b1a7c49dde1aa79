package level

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/systems"
)

// Clear despawns every entity a previous Spawn created.
func Clear(m *systems.Maps) int {
	var doomed []ecs.Entity
	query := ecs.NewFilter1[components.LevelObject](m.World).Query()
	for query.Next() {
		doomed = append(doomed, query.Entity())
	}
	for _, e := range doomed {
		m.DespawnRecursive(e)
	}
	return len(doomed)
}

// Spawn replaces the level entities in the world with this level's objects
// and finish zone. It returns the klod spawn pose.
func (l *Level) Spawn(m *systems.Maps) (components.Transform, error) {
	if err := l.check(); err != nil {
		return components.Transform{}, err
	}
	removed := Clear(m)

	for _, o := range l.Objects {
		if err := spawnObject(m, o); err != nil {
			return components.Transform{}, fmt.Errorf("spawning %s: %w", o.Name, err)
		}
	}

	shape, err := l.FinishZone.Collider.ToShape()
	if err != nil {
		return components.Transform{}, fmt.Errorf("spawning finish zone: %w", err)
	}
	zone := m.Spawn(l.FinishZone.Transform.ToComponent())
	m.Collider.Add(zone, &components.Collider{Shape: shape})
	m.Sensor.Add(zone, &components.Sensor{})
	m.FinishLine.Add(zone, &components.FinishLine{})
	m.LevelObject.Add(zone, &components.LevelObject{})
	m.Name.Add(zone, &components.Name{Value: "Finish"})

	slog.Info("level spawned", "objects", len(l.Objects), "cleared", removed)
	return l.KlodSpawn.ToComponent(), nil
}

func spawnObject(m *systems.Maps, o Object) error {
	shape, err := o.Collider.ToShape()
	if err != nil {
		return err
	}
	power, err := components.ParsePower(o.Power)
	if err != nil {
		return err
	}
	required, err := o.Required()
	if err != nil {
		return err
	}

	e := m.Spawn(o.Transform.ToComponent())
	m.Collider.Add(e, &components.Collider{Shape: shape})
	m.Material.Add(e, &components.Material{Friction: o.Friction, Restitution: o.Restitution})
	m.Name.Add(e, &components.Name{Value: o.Name})
	m.LevelObject.Add(e, &components.LevelObject{})
	if o.AssetPath != "" {
		m.SceneHandle.Add(e, &components.SceneHandle{Path: o.AssetPath})
	}

	switch o.Kind {
	case KindAgglomerable:
		m.Agglomerable.Add(e, &components.Agglomerable{Weight: o.Mass})
		m.Mass.Add(e, &components.Mass{Value: o.Mass})
		m.Power.Add(e, &power)
		m.RigidBody.Add(e, &components.RigidBody{Kind: components.Dynamic})
		m.Velocity.Add(e, &components.Velocity{})
		m.Body.Add(e, &components.Body{State: components.BodyCandidate})
	default:
		m.RigidBody.Add(e, &components.RigidBody{Kind: components.Fixed})
		m.Body.Add(e, &components.Body{State: components.BodyScenery})
		if !required.Empty() {
			m.Obstacle.Add(e, &components.ElementalObstacle{Required: required})
		}
	}
	return nil
}

// FromWorld captures the level objects still in the world. Header fields
// (spawn, finish zone, timer, score) come from base. Absorbed candidates are
// no longer Agglomerable and destroyed obstacles are gone, so neither is saved.
func FromWorld(m *systems.Maps, base *Level) *Level {
	out := *base
	out.Version = CurrentVersion
	out.Objects = nil

	var entities []ecs.Entity
	query := ecs.NewFilter1[components.LevelObject](m.World).Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	// Filter order is archetype order; sort for stable files.
	sortByID(entities)

	used := make(map[string]bool, len(entities))
	for _, e := range entities {
		if m.FinishLine.Has(e) || !m.Collider.Has(e) || m.Parent.Has(e) {
			continue
		}
		o := Object{
			Transform: TransformFrom(m.WorldTransform(e)),
			Collider:  ColliderFrom(m.Collider.Get(e).Shape),
		}
		if m.Name.Has(e) {
			o.Name = m.Name.Get(e).Value
		}
		if m.SceneHandle.Has(e) {
			o.AssetPath = m.SceneHandle.Get(e).Path
		}
		if m.Material.Has(e) {
			mat := m.Material.Get(e)
			o.Friction, o.Restitution = mat.Friction, mat.Restitution
		}

		switch {
		case m.Agglomerable.Has(e):
			o.Kind = KindAgglomerable
			o.Mass = m.Agglomerable.Get(e).Weight
			if m.Power.Has(e) && *m.Power.Get(e) != components.PowerNone {
				o.Power = m.Power.Get(e).String()
			}
		case m.Body.Has(e) && m.Body.Get(e).State == components.BodyScenery:
			o.Kind = KindScenery
			if m.Obstacle.Has(e) {
				o.RequiredPowers = m.Obstacle.Get(e).Required.Names()
			}
		default:
			continue
		}
		if o.Name != "" {
			for used[o.Name] {
				o.Name = CopyName(o.Name)
			}
			used[o.Name] = true
		}
		out.Objects = append(out.Objects, o)
	}
	return &out
}

func sortByID(es []ecs.Entity) {
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
}
