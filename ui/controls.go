package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists the overlays as clickable check boxes.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the registry's contents.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(len(overlays.All()) + len(overlays.Categories()))
	return rows*t.LineHeight + int32(len(overlays.Categories()))*4 + t.Padding*2 + t.LineHeight + 4
}

// Draw renders the panel and applies any clicked toggles to overlays.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) {
	if !c.visible {
		return
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))

	x := c.x + padding
	y := c.y + padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			bounds := rl.Rectangle{X: float32(x), Y: float32(y + 2), Width: 12, Height: 12}
			enabled := overlays.IsEnabled(desc.ID)
			if checked := gui.CheckBox(bounds, desc.Name, enabled); checked != enabled {
				overlays.SetEnabled(desc.ID, checked)
			}
			if desc.KeyLabel != "" {
				keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
				keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
				rl.DrawText(keyText, c.x+c.width-padding-keyWidth, y, r.Theme.FontSize, rl.Gray)
			}
			y += lineHeight
		}
		y += 4
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "debug":
		return "Debug"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}
