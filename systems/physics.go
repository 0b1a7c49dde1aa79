// Package systems contains ECS systems for the game simulation.
package systems

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// groundSlop is how close to the ground plane a proxy counts as touching it.
const groundSlop = 1e-3

// proxy is a collider's world-space collision volume for one step.
type proxy struct {
	e       ecs.Entity
	root    ecs.Entity
	center  mgl32.Vec3
	radius  float32
	box     bool
	half    mgl32.Vec3 // world-scaled half extents when box
	rot     mgl32.Quat
	limb    bool
	sensor  bool
	dynamic bool
}

type pairKey struct {
	a, b ecs.Entity
}

func makePair(a, b ecs.Entity) pairKey {
	if b.ID() < a.ID() {
		a, b = b, a
	}
	return pairKey{a, b}
}

// PhysicsSystem integrates rigid bodies, resolves contacts against the
// ground plane and between colliders, and records this step's contacts.
// The klod's collision volume is the union of its limbs.
type PhysicsSystem struct {
	m      *Maps
	tuning Tuning
	bodies *ecs.Filter1[components.RigidBody]
	colls  *ecs.Filter1[components.Collider]

	grid     *SpatialGrid
	proxies  []proxy
	scratch  []int
	contacts []ContactEvent
	active   map[ecs.Entity]bool
	pairs    map[pairKey]bool
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(m *Maps, tuning Tuning) *PhysicsSystem {
	return &PhysicsSystem{
		m:      m,
		tuning: tuning,
		bodies: ecs.NewFilter1[components.RigidBody](m.World),
		colls:  ecs.NewFilter1[components.Collider](m.World),
		grid:   NewSpatialGrid(1),
		active: make(map[ecs.Entity]bool),
		pairs:  make(map[pairKey]bool),
	}
}

// Contacts returns the contact events emitted by the last step.
func (s *PhysicsSystem) Contacts() []ContactEvent {
	return s.contacts
}

// HasActiveContact reports whether e touched anything, including the ground,
// during the last step.
func (s *PhysicsSystem) HasActiveContact(e ecs.Entity) bool {
	return s.active[e]
}

// Touching reports whether a and b overlapped during the last step.
func (s *PhysicsSystem) Touching(a, b ecs.Entity) bool {
	return s.pairs[makePair(a, b)]
}

// Step advances the simulation by dt seconds.
func (s *PhysicsSystem) Step(dt float32) {
	s.contacts = s.contacts[:0]
	clear(s.active)
	clear(s.pairs)

	s.integrate(dt)
	s.collect()
	s.resolveGround()
	s.detect()
}

// rootMass returns the mass used to respond to impulses and contacts.
func (s *PhysicsSystem) rootMass(e ecs.Entity) float32 {
	m := s.m
	if m.Klod.Has(e) {
		return m.Klod.Get(e).Mass
	}
	if m.Mass.Has(e) && m.Mass.Get(e).Value > 0 {
		return m.Mass.Get(e).Value
	}
	return 1
}

// isDynamicRoot reports whether e is an unparented dynamic body.
func (s *PhysicsSystem) isDynamicRoot(e ecs.Entity) bool {
	m := s.m
	return m.RigidBody.Has(e) && m.RigidBody.Get(e).Kind == components.Dynamic && !m.Parent.Has(e)
}

// integrate applies impulses, gravity and damping, then moves dynamic roots.
func (s *PhysicsSystem) integrate(dt float32) {
	m := s.m
	var roots []ecs.Entity
	query := s.bodies.Query()
	for query.Next() {
		roots = append(roots, query.Entity())
	}

	damping := clampFloat(1-s.tuning.LinearDamping*dt, 0, 1)
	up := mgl32.Vec3{0, 1, 0}
	for _, e := range roots {
		if !s.isDynamicRoot(e) || !m.Transform.Has(e) {
			continue
		}
		if !m.Velocity.Has(e) {
			m.Velocity.Add(e, &components.Velocity{})
		}
		mass := s.rootMass(e)
		vel := m.Velocity.Get(e)
		if m.Impulse.Has(e) {
			imp := m.Impulse.Get(e)
			vel.Linear = vel.Linear.Add(imp.Linear.Mul(1 / mass))
			imp.Linear = mgl32.Vec3{}
		}
		vel.Linear[1] -= s.tuning.Gravity * dt
		vel.Linear = vel.Linear.Mul(damping)

		if m.Klod.Has(e) && s.tuning.InitialRadius > 0 {
			// Rolling without slipping on the ground.
			vel.Angular = up.Cross(vel.Linear).Mul(1 / s.tuning.InitialRadius)
		}

		tr := m.Transform.Get(e)
		tr.Translation = tr.Translation.Add(vel.Linear.Mul(dt))
		tr.Rotation = integrateRotation(tr.Rotation, vel.Angular, dt)
	}
}

// collect builds world-space proxies for every collider, ordered by entity id.
func (s *PhysicsSystem) collect() {
	m := s.m
	s.proxies = s.proxies[:0]

	var entities []ecs.Entity
	query := s.colls.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	sortEntities(entities)

	for _, e := range entities {
		shape := m.Collider.Get(e).Shape
		world := m.WorldTransform(e)
		root := m.Root(e)
		p := proxy{
			e:       e,
			root:    root,
			center:  world.Translation,
			radius:  shape.Scaled(world.Scale).BoundingRadius(),
			limb:    m.Limb.Has(e),
			sensor:  m.Sensor.Has(e),
			dynamic: s.isDynamicRoot(root) && m.Transform.Has(root) && m.Velocity.Has(root),
			rot:     world.Rotation,
		}
		if !p.limb && (shape.Kind == components.ShapeCuboid || shape.Kind == components.ShapeRoundCuboid) {
			p.box = true
			p.half = mgl32.Vec3{
				shape.HalfExtents.X()*abs32(world.Scale.X()) + shape.BorderRadius,
				shape.HalfExtents.Y()*abs32(world.Scale.Y()) + shape.BorderRadius,
				shape.HalfExtents.Z()*abs32(world.Scale.Z()) + shape.BorderRadius,
			}
		}
		s.proxies = append(s.proxies, p)
	}
}

// moveRoot shifts a dynamic root and every proxy belonging to it.
func (s *PhysicsSystem) moveRoot(root ecs.Entity, delta mgl32.Vec3) {
	tr := s.m.Transform.Get(root)
	tr.Translation = tr.Translation.Add(delta)
	for i := range s.proxies {
		if s.proxies[i].root == root {
			s.proxies[i].center = s.proxies[i].center.Add(delta)
		}
	}
}

// resolveGround keeps dynamic bodies above the ground plane.
func (s *PhysicsSystem) resolveGround() {
	ground := s.tuning.GroundHeight
	push := make(map[ecs.Entity]float32)
	var order []ecs.Entity
	for _, p := range s.proxies {
		if !p.dynamic || p.sensor {
			continue
		}
		bottom := p.center.Y() - p.radius
		if p.box {
			bottom = p.center.Y() - boxExtentY(p)
		}
		if bottom > ground+groundSlop {
			continue
		}
		s.active[p.e] = true
		if _, seen := push[p.root]; !seen {
			push[p.root] = 0
			order = append(order, p.root)
		}
		if depth := ground - bottom; depth > push[p.root] {
			push[p.root] = depth
		}
	}

	for _, root := range order {
		if d := push[root]; d > 0 {
			s.moveRoot(root, mgl32.Vec3{0, d, 0})
		}
		if vel := s.m.Velocity.Get(root); vel.Linear.Y() < 0 {
			vel.Linear[1] = -vel.Linear.Y() * s.tuning.GroundRestitution
		}
	}
}

// detect finds overlapping proxy pairs, records them, emits contact events
// and pushes non-sensor pairs apart.
func (s *PhysicsSystem) detect() {
	var maxR float32
	for _, p := range s.proxies {
		r := p.radius
		if p.box {
			r = p.half.Len()
		}
		if r > maxR {
			maxR = r
		}
	}
	s.grid.Reset(2 * maxR)
	for i, p := range s.proxies {
		s.grid.Insert(i, p.center.X(), p.center.Z())
	}

	for i := range s.proxies {
		s.scratch = s.grid.QueryInto(s.scratch[:0], s.proxies[i].center.X(), s.proxies[i].center.Z())
		sort.Ints(s.scratch)
		for _, j := range s.scratch {
			if j <= i {
				continue
			}
			a, b := &s.proxies[i], &s.proxies[j]
			if a.root == b.root || (!a.dynamic && !b.dynamic) {
				continue
			}
			normal, depth, hit := overlap(a, b)
			if !hit {
				continue
			}
			s.touch(a, b, normal, depth)
		}
	}
}

// touch handles one overlapping pair. normal points from a to b.
func (s *PhysicsSystem) touch(a, b *proxy, normal mgl32.Vec3, depth float32) {
	m := s.m
	s.active[a.e] = true
	s.active[b.e] = true
	s.pairs[makePair(a.e, b.e)] = true

	var va, vb mgl32.Vec3
	if m.Velocity.Has(a.root) {
		va = m.Velocity.Get(a.root).Linear
	}
	if m.Velocity.Has(b.root) {
		vb = m.Velocity.Get(b.root).Linear
	}
	var massA, massB float32
	if a.dynamic || m.Mass.Has(a.root) || m.Klod.Has(a.root) {
		massA = s.rootMass(a.root)
	}
	if b.dynamic || m.Mass.Has(b.root) || m.Klod.Has(b.root) {
		massB = s.rootMass(b.root)
	}
	force := vb.Sub(va).Len() * (massA + massB)
	if force > s.tuning.ContactForceThreshold {
		s.contacts = append(s.contacts, ContactEvent{A: a.e, B: b.e, Force: force})
	}

	if a.sensor || b.sensor {
		return
	}

	var invA, invB float32
	if a.dynamic {
		invA = 1 / s.rootMass(a.root)
	}
	if b.dynamic {
		invB = 1 / s.rootMass(b.root)
	}
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	if a.dynamic {
		s.moveRoot(a.root, normal.Mul(-depth*invA/invSum))
	}
	if b.dynamic {
		s.moveRoot(b.root, normal.Mul(depth*invB/invSum))
	}

	vn := vb.Sub(va).Dot(normal)
	if vn >= 0 {
		return
	}
	e := (s.restitution(a.e) + s.restitution(b.e)) / 2
	j := -(1 + e) * vn / invSum
	if a.dynamic {
		vel := m.Velocity.Get(a.root)
		vel.Linear = vel.Linear.Sub(normal.Mul(j * invA))
	}
	if b.dynamic {
		vel := m.Velocity.Get(b.root)
		vel.Linear = vel.Linear.Add(normal.Mul(j * invB))
	}
}

func (s *PhysicsSystem) restitution(e ecs.Entity) float32 {
	if s.m.Material.Has(e) {
		return s.m.Material.Get(e).Restitution
	}
	return 0
}

// overlap tests two proxies. normal points from a to b; depth is the
// penetration along it.
func overlap(a, b *proxy) (mgl32.Vec3, float32, bool) {
	switch {
	case a.box && !b.box:
		return sphereBox(b, a, true)
	case b.box && !a.box:
		return sphereBox(a, b, false)
	}
	return sphereSphere(a.center, a.radius, b.center, b.radius)
}

func sphereSphere(ca mgl32.Vec3, ra float32, cb mgl32.Vec3, rb float32) (mgl32.Vec3, float32, bool) {
	d := cb.Sub(ca)
	dist := d.Len()
	depth := ra + rb - dist
	if depth <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	if dist < 1e-6 {
		return mgl32.Vec3{0, 1, 0}, depth, true
	}
	return d.Mul(1 / dist), depth, true
}

// sphereBox tests sphere sp against oriented box bx. The returned normal
// points from sphere to box, or from box to sphere when flip is set.
func sphereBox(sp, bx *proxy, flip bool) (mgl32.Vec3, float32, bool) {
	inv := bx.rot.Normalize().Inverse()
	local := inv.Rotate(sp.center.Sub(bx.center))

	closest := mgl32.Vec3{
		clampFloat(local.X(), -bx.half.X(), bx.half.X()),
		clampFloat(local.Y(), -bx.half.Y(), bx.half.Y()),
		clampFloat(local.Z(), -bx.half.Z(), bx.half.Z()),
	}
	d := local.Sub(closest)
	dist := d.Len()

	var n mgl32.Vec3 // box -> sphere, local space
	var depth float32
	if dist > 1e-6 {
		depth = sp.radius - dist
		n = d.Mul(1 / dist)
	} else {
		// Center inside the box: exit through the nearest face.
		best := float32(math.MaxFloat32)
		for axis := 0; axis < 3; axis++ {
			for _, sign := range [2]float32{-1, 1} {
				gap := bx.half[axis] - sign*local[axis]
				if gap < best {
					best = gap
					n = mgl32.Vec3{}
					n[axis] = sign
				}
			}
		}
		depth = sp.radius + best
	}
	if depth <= 0 {
		return mgl32.Vec3{}, 0, false
	}

	world := bx.rot.Rotate(n)
	if flip {
		return world, depth, true
	}
	return world.Mul(-1), depth, true
}

// boxExtentY is the vertical half-extent of an oriented box.
func boxExtentY(p proxy) float32 {
	var ext float32
	for axis := 0; axis < 3; axis++ {
		var e mgl32.Vec3
		e[axis] = p.half[axis]
		ext += abs32(p.rot.Rotate(e).Y())
	}
	return ext
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
