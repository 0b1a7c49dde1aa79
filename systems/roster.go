package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// Roster answers questions about the klod and the entities it owns.
type Roster struct {
	m           *Maps
	klods       *ecs.Filter1[components.Klod]
	limbs       *ecs.Filter1[components.Limb]
	accessories *ecs.Filter1[components.Accessory]
	ballVisuals *ecs.Filter1[components.BallVisual]
}

// NewRoster creates a roster over m's world.
func NewRoster(m *Maps) *Roster {
	return &Roster{
		m:           m,
		klods:       ecs.NewFilter1[components.Klod](m.World),
		limbs:       ecs.NewFilter1[components.Limb](m.World),
		accessories: ecs.NewFilter1[components.Accessory](m.World),
		ballVisuals: ecs.NewFilter1[components.BallVisual](m.World),
	}
}

// Klod returns the live klod, if any.
func (r *Roster) Klod() (ecs.Entity, bool) {
	query := r.klods.Query()
	if query.Next() {
		e := query.Entity()
		query.Close()
		return e, true
	}
	return ecs.Entity{}, false
}

// Limbs returns klod's limbs ordered by entity id.
func (r *Roster) Limbs(klod ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	query := r.limbs.Query()
	for query.Next() {
		if query.Get().Klod == klod {
			out = append(out, query.Entity())
		}
	}
	sortEntities(out)
	return out
}

// Powers returns the set of powers across klod's limbs and, for each power,
// the lowest-id limb carrying it.
func (r *Roster) Powers(klod ecs.Entity) (components.PowerSet, map[components.Power]ecs.Entity) {
	var set components.PowerSet
	contributors := make(map[components.Power]ecs.Entity)
	for _, limb := range r.Limbs(klod) {
		if !r.m.Power.Has(limb) {
			continue
		}
		p := *r.m.Power.Get(limb)
		if p == components.PowerNone {
			continue
		}
		set = set.Add(p)
		if _, ok := contributors[p]; !ok {
			contributors[p] = limb
		}
	}
	return set, contributors
}

// Accessories returns decorative parts directly parented to klod.
func (r *Roster) Accessories(klod ecs.Entity) []ecs.Entity {
	query := r.accessories.Query()
	return r.ownedBy(&query, klod)
}

// BallVisuals returns ball meshes directly parented to klod.
func (r *Roster) BallVisuals(klod ecs.Entity) []ecs.Entity {
	query := r.ballVisuals.Query()
	return r.ownedBy(&query, klod)
}

// ownedBy collects the query's entities whose parent is klod.
func (r *Roster) ownedBy(query interface {
	Next() bool
	Entity() ecs.Entity
}, klod ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	for query.Next() {
		e := query.Entity()
		if r.m.Parent.Has(e) && r.m.Parent.Get(e).Entity == klod {
			out = append(out, e)
		}
	}
	sortEntities(out)
	return out
}

// KlodOf returns the klod owning limb, if limb is a limb of a live klod.
func (r *Roster) KlodOf(limb ecs.Entity) (ecs.Entity, bool) {
	if !r.m.Alive(limb) || !r.m.Limb.Has(limb) {
		return ecs.Entity{}, false
	}
	klod := r.m.Limb.Get(limb).Klod
	if !r.m.Alive(klod) || !r.m.Klod.Has(klod) {
		return ecs.Entity{}, false
	}
	return klod, true
}
