package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string, color rl.Color) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for a value in [0, max].
func (r *Renderer) DrawBar(x, y int32, label string, value, max float32, width int32) int32 {
	ratio := float32(0)
	if max > 0 {
		ratio = value / max
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if ratio < 0.2 {
		fill = r.Theme.BarFillLow
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.0f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawField renders a field based on its descriptor.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		color := r.Theme.ValueColor
		if fd.Color != nil {
			color = fd.Color(data)
		}
		return r.DrawLabelValue(x, y, fd.Label, fieldText(fd, data), color)

	case WidgetBar:
		var value float32
		if fd.Getter != nil {
			value = fd.Getter(data)
		}
		max := float32(1)
		if fd.Max != nil {
			max = fd.Max(data)
		}
		return r.DrawBar(x, y, fd.Label, value, max, width)

	case WidgetSpacer:
		return y + 6
	}
	return y
}

// fieldText formats a text field's value.
func fieldText(fd FieldDescriptor, data any) string {
	if fd.TextGetter != nil {
		return fd.TextGetter(data)
	}
	if fd.Getter != nil {
		format := fd.Format
		if format == "" {
			format = "%.2f"
		}
		return fmt.Sprintf(format, fd.Getter(data))
	}
	return ""
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + 4
}

// PanelHeight measures a panel for the given data without drawing it.
func (r *Renderer) PanelHeight(pd PanelDescriptor, data any) int32 {
	t := r.Theme
	h := t.Padding * 2
	if pd.Title != "" {
		h += t.TitleFontSize + 6
	}
	for _, sd := range pd.Sections {
		if sd.Visible != nil && !sd.Visible(data) {
			continue
		}
		if sd.Title != "" {
			h += t.LineHeight + 2
		}
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(data) {
				continue
			}
			switch fd.Widget {
			case WidgetBar:
				h += t.LineHeight + 2
			case WidgetSpacer:
				h += 6
			default:
				h += t.LineHeight
			}
		}
		h += 4
	}
	return h
}

// Anchored returns the top-left corner of a panel placed on a screen.
func (r *Renderer) Anchored(anchor PanelAnchor, width, height, screenW, screenH int32) (int32, int32) {
	m := r.Theme.Margin
	switch anchor {
	case AnchorTopRight:
		return screenW - width - m, m
	case AnchorBottomLeft:
		return m, screenH - height - m
	case AnchorBottomRight:
		return screenW - width - m, screenH - height - m
	case AnchorCenter:
		return (screenW - width) / 2, (screenH - height) / 2
	}
	return m, m
}

// DrawPanelDescriptor lays out and draws a whole panel.
func (r *Renderer) DrawPanelDescriptor(pd PanelDescriptor, data any, screenW, screenH int32) {
	height := r.PanelHeight(pd, data)
	x, y := r.Anchored(pd.Anchor, pd.Width, height, screenW, screenH)
	r.DrawPanel(x, y, pd.Width, height)

	inner := pd.Width - r.Theme.Padding*2
	x += r.Theme.Padding
	y += r.Theme.Padding
	if pd.Title != "" {
		rl.DrawText(pd.Title, x, y, r.Theme.TitleFontSize, r.Theme.ValueColor)
		y += r.Theme.TitleFontSize + 6
	}
	for _, sd := range pd.Sections {
		y = r.DrawSection(x, y, sd, data, inner)
	}
}
