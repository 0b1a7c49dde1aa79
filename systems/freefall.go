package systems

import "github.com/mlange-42/ark/ecs"

// ContactSource exposes the physics step's contact results.
type ContactSource interface {
	Contacts() []ContactEvent
	HasActiveContact(e ecs.Entity) bool
}

// FreeFallSystem marks the klod as falling when none of its limbs touched
// anything during the last physics step.
type FreeFallSystem struct {
	m      *Maps
	roster *Roster
}

// NewFreeFallSystem creates a free-fall system.
func NewFreeFallSystem(m *Maps, roster *Roster) *FreeFallSystem {
	return &FreeFallSystem{m: m, roster: roster}
}

// Update sets FreeFall.Falling from src's active contacts.
func (s *FreeFallSystem) Update(src ContactSource) {
	klod, ok := s.roster.Klod()
	if !ok || !s.m.FreeFall.Has(klod) {
		return
	}
	falling := true
	for _, limb := range s.roster.Limbs(klod) {
		if src.HasActiveContact(limb) {
			falling = false
			break
		}
	}
	s.m.FreeFall.Get(klod).Falling = falling
}
