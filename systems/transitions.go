package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// debris describes the physics an entity gets when released from the klod.
type debris struct {
	collider components.Collider
	mass     float32
	material components.Material
	velocity components.Velocity
}

// becomeVisual turns a candidate into a stripped visual parented under klod
// at the given local pose. The entity keeps its identity, name, asset handle
// and any children.
func (m *Maps) becomeVisual(e, klod ecs.Entity, local components.Transform) {
	drop(m.RigidBody, e)
	drop(m.Agglomerable, e)
	drop(m.Collider, e)
	drop(m.Material, e)
	drop(m.Mass, e)
	drop(m.Velocity, e)
	drop(m.Impulse, e)
	drop(m.Power, e)

	put(m.Transform, e, local)
	put(m.Body, e, components.Body{State: components.BodyVisual})
	m.SetParent(e, klod)
}

// becomeDynamic releases e from its parent as an independent rigid body
// at the given world pose.
func (m *Maps) becomeDynamic(e ecs.Entity, world components.Transform, d debris) {
	m.Unparent(e)
	drop(m.Accessory, e)
	drop(m.Animate, e)

	put(m.Transform, e, world)
	put(m.RigidBody, e, components.RigidBody{Kind: components.Dynamic})
	put(m.Collider, e, d.collider)
	put(m.Mass, e, components.Mass{Value: d.mass})
	put(m.Material, e, d.material)
	put(m.Velocity, e, d.velocity)
	put(m.Body, e, components.Body{State: components.BodyDynamic})
}
