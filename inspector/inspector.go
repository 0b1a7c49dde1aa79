// Package inspector shows the components of a selected entity in a side panel.
package inspector

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/systems"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Section is one component of the selected entity.
type Section struct {
	Name   string
	Fields []Field
}

// Inspector tracks the selected entity and renders its panel.
type Inspector struct {
	selected    ecs.Entity
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector docked to the right edge.
func NewInspector(screenWidth int32) *Inspector {
	return &Inspector{
		panelX: screenWidth - PanelWidth - 10,
		panelY: 10,
	}
}

// Resize re-docks the panel after a window resize.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Select shows e in the panel.
func (ins *Inspector) Select(e ecs.Entity) {
	ins.selected = e
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected entity, if any.
func (ins *Inspector) Selected() (ecs.Entity, bool) {
	return ins.selected, ins.hasSelected
}

// Pick returns the closest entity whose collider's bounding sphere the ray
// hits. dir must be normalized.
func Pick(m *systems.Maps, origin, dir mgl32.Vec3) (ecs.Entity, bool) {
	var best ecs.Entity
	bestT := float32(math.MaxFloat32)
	found := false

	query := ecs.NewFilter1[components.Collider](m.World).Query()
	for query.Next() {
		e := query.Entity()
		col := query.Get()
		wt := m.WorldTransform(e)
		r := col.Shape.Scaled(wt.Scale).BoundingRadius()
		if t, ok := raySphere(origin, dir, wt.Translation, r); ok && t < bestT {
			best, bestT, found = e, t, true
		}
	}
	return best, found
}

// raySphere returns the distance along the ray to the first hit.
func raySphere(origin, dir, center mgl32.Vec3, r float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Sections lists the selected entity's components in a fixed order.
// It returns nil when nothing is selected or the entity is gone.
func (ins *Inspector) Sections(m *systems.Maps) []Section {
	if !ins.hasSelected || !m.Alive(ins.selected) {
		return nil
	}
	e := ins.selected
	var out []Section
	add := func(name string, has bool, get func() any) {
		if has {
			out = append(out, Section{Name: name, Fields: ExtractFields(get())})
		}
	}
	add("Name", m.Name.Has(e), func() any { return m.Name.Get(e) })
	add("Body", m.Body.Has(e), func() any { return m.Body.Get(e) })
	add("Klod", m.Klod.Has(e), func() any { return m.Klod.Get(e) })
	add("FreeFall", m.FreeFall.Has(e), func() any { return m.FreeFall.Get(e) })
	add("Limb", m.Limb.Has(e), func() any { return m.Limb.Get(e) })
	add("Agglomerable", m.Agglomerable.Has(e), func() any { return m.Agglomerable.Get(e) })
	add("Obstacle", m.Obstacle.Has(e), func() any { return m.Obstacle.Get(e) })
	add("Power", m.Power.Has(e), func() any { return m.Power.Get(e) })
	add("Mass", m.Mass.Has(e), func() any { return m.Mass.Get(e) })
	add("Material", m.Material.Has(e), func() any { return m.Material.Get(e) })
	add("Collider", m.Collider.Has(e), func() any { return m.Collider.Get(e) })
	add("Transform", m.Transform.Has(e), func() any { return m.Transform.Get(e) })
	add("Velocity", m.Velocity.Has(e), func() any { return m.Velocity.Get(e) })
	return out
}

// Draw renders the panel for the selected entity.
func (ins *Inspector) Draw(m *systems.Maps) {
	sections := ins.Sections(m)
	if sections == nil {
		return
	}

	height := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		height += 20 + int32(len(s.Fields))*18
	}

	x, y := ins.panelX, ins.panelY
	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLines(x, y, PanelWidth, height, ColorPanelBorder)
	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText("Inspector", x+PanelPadding, y+8, 16, ColorHeaderText)

	y += HeaderHeight + 4
	for _, s := range sections {
		rl.DrawText(s.Name, x+PanelPadding, y, 14, ColorSectionText)
		y += 20
		for _, f := range s.Fields {
			y += DrawField(x+PanelPadding+8, y, f)
		}
	}
}
