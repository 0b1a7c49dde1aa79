package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

func TestWorldTransformChain(t *testing.T) {
	m := NewMaps(ecs.NewWorld())
	root := m.Spawn(components.Transform{
		Translation: mgl32.Vec3{10, 0, 0},
		Rotation:    mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{1, 1, 1},
	})
	mid := m.Spawn(components.FromTranslation(mgl32.Vec3{1, 0, 0}))
	leaf := m.Spawn(components.FromTranslation(mgl32.Vec3{0, 2, 0}))
	m.SetParent(mid, root)
	m.SetParent(leaf, mid)

	// Rotating +X by 90 degrees about Y gives -Z.
	want := mgl32.Vec3{10, 2, -1}
	if got := m.WorldTransform(leaf).Translation; got.Sub(want).Len() > 1e-4 {
		t.Errorf("leaf world translation = %v, want %v", got, want)
	}
	if got := m.Root(leaf); got != root {
		t.Errorf("Root(leaf) = %v, want root", got)
	}
}

func TestChildrenAndDespawnRecursive(t *testing.T) {
	m := NewMaps(ecs.NewWorld())
	root := m.Spawn(components.Identity())
	var kids []ecs.Entity
	for i := 0; i < 3; i++ {
		k := m.Spawn(components.Identity())
		m.SetParent(k, root)
		kids = append(kids, k)
	}
	grandchild := m.Spawn(components.Identity())
	m.SetParent(grandchild, kids[1])
	unrelated := m.Spawn(components.Identity())

	children := m.Children(root)
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3", len(children))
	}
	for i := 1; i < len(children); i++ {
		if children[i-1].ID() > children[i].ID() {
			t.Error("children not ordered by id")
		}
	}

	m.DespawnRecursive(root)
	for _, e := range append(kids, root, grandchild) {
		if m.Alive(e) {
			t.Errorf("entity %v survived recursive despawn", e)
		}
	}
	if !m.Alive(unrelated) {
		t.Error("unrelated entity was despawned")
	}
}

func TestContactOther(t *testing.T) {
	w := ecs.NewWorld()
	a := w.NewEntity()
	b := w.NewEntity()
	c := ContactEvent{A: a, B: b}
	if c.Other(a) != b || c.Other(b) != a {
		t.Errorf("Other(a) = %v, Other(b) = %v", c.Other(a), c.Other(b))
	}
}

func TestQueueFIFO(t *testing.T) {
	var q Queue[int]
	for i := 1; i <= 3; i++ {
		q.Push(i)
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	got := q.Drain()
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Drain = %v, want [1 2 3]", got)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Error("queue not empty after Drain")
	}
}

func TestSpatialGridNeighborhood(t *testing.T) {
	g := NewSpatialGrid(2)
	g.Insert(0, 0.5, 0.5)
	g.Insert(1, 2.5, -1.5) // adjacent cell
	g.Insert(2, 9, 9)      // far away

	got := g.QueryInto(nil, 0.1, 0.1)
	has := map[int]bool{}
	for _, i := range got {
		has[i] = true
	}
	if !has[0] || !has[1] || has[2] {
		t.Errorf("QueryInto = %v, want 0 and 1 only", got)
	}

	g.Reset(2)
	if got := g.QueryInto(nil, 0.1, 0.1); len(got) != 0 {
		t.Errorf("after Reset QueryInto = %v, want empty", got)
	}
}

func TestSpatialGridDropsStaleCells(t *testing.T) {
	g := NewSpatialGrid(2)

	// A proxy crossing the world visits a new cell every step.
	for step := 0; step < 100; step++ {
		g.Reset(2)
		g.Insert(0, float32(step)*2, 0)
	}
	if n := len(g.cells); n > 2 {
		t.Errorf("cells after a long run = %d, want at most 2", n)
	}

	g.Reset(2)
	g.Insert(0, 1, 1)
	g.Reset(2)
	if n := len(g.cells); n != 1 {
		t.Errorf("cells kept after one idle step = %d, want 1", n)
	}
	g.Reset(2)
	if n := len(g.cells); n != 0 {
		t.Errorf("cells after two idle steps = %d, want 0", n)
	}

	g.Insert(0, 1, 1)
	g.Reset(4)
	if n := len(g.cells); n != 0 || g.CellSize() != 4 {
		t.Errorf("after resize cells = %d, size = %v, want 0 and 4", n, g.CellSize())
	}
}

func TestAnimate(t *testing.T) {
	w := ecs.NewWorld()
	m := NewMaps(w)
	sys := NewAnimateSystem(w)

	mover := m.Spawn(components.FromTranslation(mgl32.Vec3{8, 0, 0}))
	m.Animate.Add(mover, &components.Animate{Kind: components.AnimateMoveToward, Target: mgl32.Vec3{0.8, 0, 0}, Speed: 10})
	grower := m.Spawn(components.Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{0.01, 0.01, 0.01}})
	m.Animate.Add(grower, &components.Animate{Kind: components.AnimateResizeTo, Target: mgl32.Vec3{1, 1, 1}, Speed: 1})

	sys.Update(0.1)
	if got := m.Transform.Get(mover).Translation.X(); !approx(got, 7, 1e-4) {
		t.Errorf("after 0.1s x = %v, want 7", got)
	}

	for i := 0; i < 100; i++ {
		sys.Update(0.1)
	}
	if got := m.Transform.Get(mover).Translation.X(); got < 0.8-0.25 || got > 0.8+0.25 {
		t.Errorf("final x = %v, want near 0.8 without overshoot", got)
	}
	if got := m.Transform.Get(grower).Scale.X(); got < 0.95 {
		t.Errorf("final scale = %v, want ~1", got)
	}
}

func TestSystemRegistry(t *testing.T) {
	reg := NewSystemRegistry()
	if got := reg.GetName("absorb"); got != "Absorb" {
		t.Errorf("GetName(absorb) = %q", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName fallback = %q, want id", got)
	}
	if len(reg.ByCategory("klod")) != 3 {
		t.Errorf("klod systems = %d, want 3", len(reg.ByCategory("klod")))
	}
}
