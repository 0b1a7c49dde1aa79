package ui

import (
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/klod/score"
	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/telemetry"
)

func TestOverlayRegistry(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.IsEnabled(OverlayHUD) {
		t.Error("HUD should be enabled by default")
	}
	if reg.IsEnabled(OverlayColliders) {
		t.Error("colliders should start disabled")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyC)
	if !ok || id != OverlayColliders || !on {
		t.Errorf("HandleKeyPress(C) = %v, %v, %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}

	reg.SetEnabled(OverlayPerf, true)
	reg.Toggle(OverlayInspector)
	if reg.IsEnabled(OverlayPerf) {
		t.Error("enabling the inspector should close the perf panel")
	}

	got := reg.EnabledOverlays()
	want := []OverlayID{OverlayColliders, OverlayHUD, OverlayInspector}
	if len(got) != len(want) {
		t.Fatalf("EnabledOverlays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EnabledOverlays()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if cats := reg.Categories(); len(cats) != 2 || cats[0] != "debug" || cats[1] != "panels" {
		t.Errorf("Categories() = %v", cats)
	}
}

func TestPanelLayout(t *testing.T) {
	r := NewRenderer()
	th := r.Theme

	tests := []struct {
		anchor PanelAnchor
		x, y   int32
	}{
		{AnchorTopLeft, th.Margin, th.Margin},
		{AnchorTopRight, 1000 - 200 - th.Margin, th.Margin},
		{AnchorBottomLeft, th.Margin, 800 - 100 - th.Margin},
		{AnchorBottomRight, 1000 - 200 - th.Margin, 800 - 100 - th.Margin},
		{AnchorCenter, 400, 350},
	}
	for _, tt := range tests {
		x, y := r.Anchored(tt.anchor, 200, 100, 1000, 800)
		if x != tt.x || y != tt.y {
			t.Errorf("Anchored(%d) = (%d, %d), want (%d, %d)", tt.anchor, x, y, tt.x, tt.y)
		}
	}

	calm := HUDData{TimeTotal: 60, TimeLeft: 30}
	holding := calm
	holding.GiveUpHeld = 0.5
	holding.Falling = true
	if r.PanelHeight(HUDPanel, holding) <= r.PanelHeight(HUDPanel, calm) {
		t.Error("conditional HUD rows should grow the panel")
	}
}

func TestHUDFields(t *testing.T) {
	data := HUDData{Mass: 1.234, BoneMass: 42, Limbs: 3, Mana: 120, RequiredMana: 100}
	want := map[string]string{
		"Mass":      "1.23",
		"Bone mass": "42",
		"Limbs":     "3",
		"Mana":      "120 / 100",
	}
	for _, sd := range HUDPanel.Sections {
		for _, fd := range sd.Fields {
			if w, ok := want[fd.Label]; ok {
				if got := fieldText(fd, data); got != w {
					t.Errorf("%s = %q, want %q", fd.Label, got, w)
				}
			}
		}
	}
}

func TestPerfRows(t *testing.T) {
	reg := systems.NewSystemRegistry()
	stats := telemetry.PerfStats{
		PhaseAvg: map[string]time.Duration{
			telemetry.PhasePhysics: 3 * time.Millisecond,
			telemetry.PhaseAbsorb:  time.Millisecond,
			"custom":               2 * time.Millisecond,
		},
		PhasePct: map[string]float64{telemetry.PhasePhysics: 50},
	}
	rows := PerfRows(stats, reg)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	wantNames := []string{"Physics", "custom", "Absorb"}
	for i, name := range wantNames {
		if rows[i].Name != name {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].Name, name)
		}
	}
	if rows[0].Pct != 50 {
		t.Errorf("physics pct = %v, want 50", rows[0].Pct)
	}

	for _, phase := range telemetry.Phases {
		if _, ok := reg.Get(phase); !ok {
			t.Errorf("phase %q has no registry entry", phase)
		}
	}
}

func TestResultLines(t *testing.T) {
	won := score.Score{BoneMass: 10, TimeRemaining: 20, RequiredMana: 100}
	lines := ResultLines(won)
	if len(lines) != 4 || lines[3] != score.HintFinished {
		t.Errorf("ResultLines(won) = %v", lines)
	}
	late := score.Score{BoneMass: 10, RequiredMana: 100}
	if got := ResultLines(late)[3]; got != score.HintTimeUp {
		t.Errorf("hint = %q, want %q", got, score.HintTimeUp)
	}

	at := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	best := BestLines([]score.Result{
		{Mana: 250, Won: true, FinishedAt: at},
		{Mana: 90, FinishedAt: at},
	})
	if best[0] != "1. 250 mana (2026-03-04) *" || best[1] != "2. 90 mana (2026-03-04)" {
		t.Errorf("BestLines() = %v", best)
	}
}

func TestActionString(t *testing.T) {
	if ActionRetry.String() != "retry" || ActionNone.String() != "none" {
		t.Errorf("unexpected action names %s %s", ActionRetry, ActionNone)
	}
}
