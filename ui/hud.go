package ui

import (
	"fmt"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Level        string
	State        string
	Tick         int32
	FPS          int32
	Paused       bool
	Mass         float32
	BoneMass     float32
	Limbs        int
	Powers       string
	Falling      bool
	TimeLeft     float32
	TimeTotal    float32
	Mana         float32
	RequiredMana float32
	GiveUpHeld   float32
	GiveUpHold   float32
	Autopilot    bool
}

func hud(data any) HUDData { return data.(HUDData) }

// HUDPanel describes the main heads-up display.
var HUDPanel = PanelDescriptor{
	Title:  "Klod",
	Width:  280,
	Anchor: AnchorTopLeft,
	Sections: []SectionDescriptor{
		{
			Title: "Ball",
			Fields: []FieldDescriptor{
				{Label: "Mass", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return hud(d).Mass }},
				{Label: "Bone mass", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return hud(d).BoneMass }},
				{Label: "Limbs", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", hud(d).Limbs) }},
				{Label: "Powers", Widget: WidgetText, TextGetter: func(d any) string { return hud(d).Powers }},
				{
					Label:      "Falling",
					Widget:     WidgetText,
					Visible:    func(d any) bool { return hud(d).Falling },
					TextGetter: func(any) string { return "yes" },
					Color:      func(any) rl.Color { return rl.Orange },
				},
			},
		},
		{
			Title: "Ritual",
			Fields: []FieldDescriptor{
				{
					Label:  "Time",
					Widget: WidgetBar,
					Getter: func(d any) float32 { return hud(d).TimeLeft },
					Max:    func(d any) float32 { return hud(d).TimeTotal },
				},
				{
					Label:  "Mana",
					Widget: WidgetText,
					TextGetter: func(d any) string {
						h := hud(d)
						return fmt.Sprintf("%.0f / %.0f", h.Mana, h.RequiredMana)
					},
					Color: func(d any) rl.Color {
						if h := hud(d); h.Mana > h.RequiredMana {
							return DefaultTheme().Good
						}
						return DefaultTheme().Bad
					},
				},
				{
					Label:   "Give up",
					Widget:  WidgetBar,
					Visible: func(d any) bool { return hud(d).GiveUpHeld > 0 },
					Getter:  func(d any) float32 { return hud(d).GiveUpHeld },
					Max:     func(d any) float32 { return hud(d).GiveUpHold },
				},
			},
		},
	},
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData, screenWidth, screenHeight int32) {
	h.renderer.DrawPanelDescriptor(HUDPanel, data, screenWidth, screenHeight)

	status := fmt.Sprintf("%s | %s | Tick: %d | FPS: %d", data.Level, data.State, data.Tick, data.FPS)
	if data.Autopilot {
		status += " | AUTOPILOT"
	}
	if data.Paused {
		status += " | PAUSED"
	}
	w := rl.MeasureText(status, 14)
	rl.DrawText(status, screenWidth-w-10, 10, 14, rl.LightGray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfRow is one system line in the performance panel.
type PerfRow struct {
	Name string
	Avg  time.Duration
	Pct  float64
}

// PerfRows orders the phases of stats by cost, slowest first, using the
// registry's display names.
func PerfRows(stats telemetry.PerfStats, registry *systems.SystemRegistry) []PerfRow {
	rows := make([]PerfRow, 0, len(stats.PhaseAvg))
	for id, avg := range stats.PhaseAvg {
		name := id
		if registry != nil {
			name = registry.GetName(id)
		}
		rows = append(rows, PerfRow{Name: name, Avg: avg, Pct: stats.PhasePct[id]})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Avg != rows[j].Avg {
			return rows[i].Avg > rows[j].Avg
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// PerfPanel renders the system performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, registry *systems.SystemRegistry) {
	rows := PerfRows(stats, registry)
	r := p.renderer
	height := int32(56 + 14*len(rows))
	r.DrawPanel(p.x, p.y, 300, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	rl.DrawText("System Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s p99 %s (%.0f/s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.P99TickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, row := range rows {
		color := rl.LightGray
		if row.Pct > 20 {
			color = rl.Red
		} else if row.Pct > 10 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", row.Name, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, 12, color,
		)
		y += 14
	}
}
