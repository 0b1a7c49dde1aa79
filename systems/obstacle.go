package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// ObstacleBreak reports an obstacle destroyed by the klod's powers.
type ObstacleBreak struct {
	Obstacle ecs.Entity
	Required components.PowerSet
	Consumed []ecs.Entity
}

// ObstacleSystem breaks elemental obstacles touched by a klod carrying every
// required power, consuming one contributing limb per required power.
type ObstacleSystem struct {
	m      *Maps
	roster *Roster
}

// NewObstacleSystem creates an obstacle system.
func NewObstacleSystem(m *Maps, roster *Roster) *ObstacleSystem {
	return &ObstacleSystem{m: m, roster: roster}
}

// Update processes this tick's contacts in order.
func (s *ObstacleSystem) Update(contacts []ContactEvent) []ObstacleBreak {
	m := s.m
	var breaks []ObstacleBreak
	for _, c := range contacts {
		if !m.Alive(c.A) || !m.Alive(c.B) {
			continue
		}
		limb := c.A
		if !m.Limb.Has(limb) {
			limb = c.B
		}
		obstacle := c.Other(limb)
		if !m.Limb.Has(limb) || !m.Obstacle.Has(obstacle) {
			continue
		}
		required := m.Obstacle.Get(obstacle).Required
		if required.Empty() {
			continue
		}
		klod, ok := s.roster.KlodOf(limb)
		if !ok {
			continue
		}

		present, contributors := s.roster.Powers(klod)
		if !present.ContainsAll(required) {
			continue
		}

		b := ObstacleBreak{Obstacle: obstacle, Required: required}
		for _, p := range required.Powers() {
			contributor := contributors[p]
			if !m.Alive(contributor) {
				continue
			}
			l := *m.Limb.Get(contributor)
			if l.HasVisual {
				m.DespawnRecursive(l.Visual)
			}
			m.Despawn(contributor)
			b.Consumed = append(b.Consumed, contributor)
		}
		m.DespawnRecursive(obstacle)

		slog.Info("obstacle broken", "obstacle", obstacle.ID(), "required", required.String(), "consumed", len(b.Consumed))
		breaks = append(breaks, b)
	}
	return breaks
}
