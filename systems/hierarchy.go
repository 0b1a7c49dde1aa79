package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// maxHierarchyDepth bounds parent-chain walks so a corrupt chain cannot loop forever.
const maxHierarchyDepth = 64

// Maps bundles the world with a component mapper per component type.
// Systems share one Maps so lookups never allocate new mappers per tick.
type Maps struct {
	World *ecs.World

	Transform    *ecs.Map[components.Transform]
	Velocity     *ecs.Map[components.Velocity]
	Impulse      *ecs.Map[components.Impulse]
	RigidBody    *ecs.Map[components.RigidBody]
	Collider     *ecs.Map[components.Collider]
	Mass         *ecs.Map[components.Mass]
	Material     *ecs.Map[components.Material]
	Body         *ecs.Map[components.Body]
	Power        *ecs.Map[components.Power]
	Name         *ecs.Map[components.Name]
	SceneHandle  *ecs.Map[components.SceneHandle]
	Parent       *ecs.Map[components.Parent]
	Sensor       *ecs.Map[components.Sensor]
	FinishLine   *ecs.Map[components.FinishLine]
	LevelObject  *ecs.Map[components.LevelObject]
	Animate      *ecs.Map[components.Animate]
	Klod         *ecs.Map[components.Klod]
	Limb         *ecs.Map[components.Limb]
	KlodBall     *ecs.Map[components.KlodBall]
	Accessory    *ecs.Map[components.Accessory]
	BallVisual   *ecs.Map[components.BallVisual]
	FreeFall     *ecs.Map[components.FreeFall]
	Agglomerable *ecs.Map[components.Agglomerable]
	Obstacle     *ecs.Map[components.ElementalObstacle]

	parents *ecs.Filter1[components.Parent]
}

// NewMaps creates mappers for every component on w.
func NewMaps(w *ecs.World) *Maps {
	return &Maps{
		World:        w,
		Transform:    ecs.NewMap[components.Transform](w),
		Velocity:     ecs.NewMap[components.Velocity](w),
		Impulse:      ecs.NewMap[components.Impulse](w),
		RigidBody:    ecs.NewMap[components.RigidBody](w),
		Collider:     ecs.NewMap[components.Collider](w),
		Mass:         ecs.NewMap[components.Mass](w),
		Material:     ecs.NewMap[components.Material](w),
		Body:         ecs.NewMap[components.Body](w),
		Power:        ecs.NewMap[components.Power](w),
		Name:         ecs.NewMap[components.Name](w),
		SceneHandle:  ecs.NewMap[components.SceneHandle](w),
		Parent:       ecs.NewMap[components.Parent](w),
		Sensor:       ecs.NewMap[components.Sensor](w),
		FinishLine:   ecs.NewMap[components.FinishLine](w),
		LevelObject:  ecs.NewMap[components.LevelObject](w),
		Animate:      ecs.NewMap[components.Animate](w),
		Klod:         ecs.NewMap[components.Klod](w),
		Limb:         ecs.NewMap[components.Limb](w),
		KlodBall:     ecs.NewMap[components.KlodBall](w),
		Accessory:    ecs.NewMap[components.Accessory](w),
		BallVisual:   ecs.NewMap[components.BallVisual](w),
		FreeFall:     ecs.NewMap[components.FreeFall](w),
		Agglomerable: ecs.NewMap[components.Agglomerable](w),
		Obstacle:     ecs.NewMap[components.ElementalObstacle](w),
		parents:      ecs.NewFilter1[components.Parent](w),
	}
}

// put sets e's component to v, adding it if missing.
func put[T any](m *ecs.Map[T], e ecs.Entity, v T) {
	if m.Has(e) {
		*m.Get(e) = v
		return
	}
	m.Add(e, &v)
}

// drop removes e's component if present.
func drop[T any](m *ecs.Map[T], e ecs.Entity) {
	if m.Has(e) {
		m.Remove(e)
	}
}

// Spawn creates an entity with the given local transform.
func (m *Maps) Spawn(t components.Transform) ecs.Entity {
	return m.Transform.NewEntity(&t)
}

// Alive reports whether e refers to a live entity.
func (m *Maps) Alive(e ecs.Entity) bool {
	return !e.IsZero() && m.World.Alive(e)
}

// LocalTransform returns e's transform, or identity when it has none.
func (m *Maps) LocalTransform(e ecs.Entity) components.Transform {
	if m.Transform.Has(e) {
		return *m.Transform.Get(e)
	}
	return components.Identity()
}

// WorldTransform composes e's local transform with every ancestor's.
func (m *Maps) WorldTransform(e ecs.Entity) components.Transform {
	t := m.LocalTransform(e)
	cur := e
	for i := 0; i < maxHierarchyDepth && m.Parent.Has(cur); i++ {
		parent := m.Parent.Get(cur).Entity
		if !m.Alive(parent) {
			break
		}
		t = m.LocalTransform(parent).Compose(t)
		cur = parent
	}
	return t
}

// Root returns the topmost live ancestor of e (e itself for roots).
func (m *Maps) Root(e ecs.Entity) ecs.Entity {
	cur := e
	for i := 0; i < maxHierarchyDepth && m.Parent.Has(cur); i++ {
		parent := m.Parent.Get(cur).Entity
		if !m.Alive(parent) {
			break
		}
		cur = parent
	}
	return cur
}

// SetParent attaches child under parent. The child's Transform is
// interpreted as local to parent from now on.
func (m *Maps) SetParent(child, parent ecs.Entity) {
	put(m.Parent, child, components.Parent{Entity: parent})
}

// Unparent detaches e, leaving its Transform untouched.
func (m *Maps) Unparent(e ecs.Entity) {
	drop(m.Parent, e)
}

// Children returns the direct children of parent ordered by entity id.
func (m *Maps) Children(parent ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	query := m.parents.Query()
	for query.Next() {
		if query.Get().Entity == parent {
			out = append(out, query.Entity())
		}
	}
	sortEntities(out)
	return out
}

// DespawnRecursive removes e and all of its descendants.
func (m *Maps) DespawnRecursive(e ecs.Entity) {
	if !m.Alive(e) {
		return
	}
	for _, child := range m.Children(e) {
		m.DespawnRecursive(child)
	}
	m.World.RemoveEntity(e)
}

// Despawn removes e if it is still alive.
func (m *Maps) Despawn(e ecs.Entity) {
	if m.Alive(e) {
		m.World.RemoveEntity(e)
	}
}

func sortEntities(es []ecs.Entity) {
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
}
