// Package ui provides a descriptor-driven UI for the game.
// Instead of hard-coding field names and layouts, panels are defined
// through metadata that can be updated alongside the underlying systems.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText   WidgetType = iota // Plain text with format string
	WidgetBar                      // Progress bar [0, Max]
	WidgetSpacer                   // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label      string
	Widget     WidgetType
	Format     string             // Printf format for Getter values (e.g., "%.2f")
	Max        func(any) float32  // Bar maximum (nil = 1)
	Visible    func(any) bool     // Optional visibility check (nil = always visible)
	Getter     func(any) float32  // Value extractor (for numeric fields)
	TextGetter func(any) string   // Value extractor (for text fields)
	Color      func(any) rl.Color // Optional value color
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	Title    string
	Sections []SectionDescriptor
	Width    int32
	Anchor   PanelAnchor
}

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorCenter
)

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	Good           rl.Color
	Bad            rl.Color
	Padding        int32
	Margin         int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 24, G: 20, B: 18, A: 225},
		PanelBorder:    rl.Color{R: 90, G: 78, B: 64, A: 255},
		SectionHeader:  rl.Color{R: 235, G: 200, B: 120, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 45, G: 40, B: 36, A: 255},
		BarFill:        rl.Color{R: 190, G: 170, B: 120, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 90, B: 80, A: 255},
		Good:           rl.Color{R: 0x63, G: 0x89, B: 0x61, A: 255},
		Bad:            rl.Color{R: 0xc6, G: 0x18, B: 0x11, A: 255},
		Padding:        10,
		Margin:         10,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
		TitleFontSize:  20,
	}
}
