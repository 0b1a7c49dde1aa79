package telemetry

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/klod/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	mean, std, p10, p50, p90 := ComputeDistribution(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	// Sample standard deviation of 1..10.
	if math.Abs(std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", std)
	}
	if math.Abs(p10-1.9) > 0.001 || math.Abs(p50-5.5) > 0.001 || math.Abs(p90-9.1) > 0.001 {
		t.Errorf("percentiles = %v/%v/%v, want 1.9/5.5/9.1", p10, p50, p90)
	}
	if values[0] != 10 {
		t.Error("input was reordered")
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	mean, std, p10, p50, p90 := ComputeDistribution(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
	mean, std, _, p50, _ = ComputeDistribution([]float64{4.2})
	if mean != 4.2 || std != 0 || p50 != 4.2 {
		t.Errorf("single value = %v/%v/%v", mean, std, p50)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.25, 0.125)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}

	c.Record(NewAbsorbEvent(1, 1, 2, 0.5, 4.7, components.PowerFire))
	c.Record(NewAbsorbEvent(2, 1, 3, 0.25, 4.95, components.PowerNone))
	c.Record(NewRejectEvent(3, 1, 4, 9, 4.95))
	c.Record(NewObstacleBreakEvent(4, 5, components.PowerSetOf(components.PowerFire), 4.95))
	c.RecordLimbsConsumed(1)
	for i := 0; i < 10; i++ {
		c.Sample(4.2+float32(i)*0.1, 2, i < 3)
	}

	if c.ShouldFlush(9) || !c.ShouldFlush(10) {
		t.Error("ShouldFlush boundary wrong")
	}

	stats := c.Flush(10, KlodState{Mass: 4.95, Limbs: 3, Powers: components.PowerSetOf(components.PowerWater)})
	if stats.Absorptions != 2 || stats.Rejections != 1 || stats.ObstaclesBroke != 1 || stats.LimbsConsumed != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if math.Abs(stats.AcceptRate-2.0/3.0) > 1e-9 {
		t.Errorf("accept rate = %v, want 2/3", stats.AcceptRate)
	}
	if math.Abs(stats.MassGained-0.75) > 1e-6 {
		t.Errorf("mass gained = %v, want 0.75", stats.MassGained)
	}
	if stats.PowersGained != "{Fire}" || stats.Powers != "{Water}" {
		t.Errorf("powers = %q gained %q", stats.Powers, stats.PowersGained)
	}
	if math.Abs(stats.FallingFrac-0.3) > 1e-9 {
		t.Errorf("falling frac = %v, want 0.3", stats.FallingFrac)
	}
	if math.Abs(stats.SimTimeSec-1.25) > 1e-6 {
		t.Errorf("sim time = %v, want 1.25", stats.SimTimeSec)
	}

	next := c.Flush(20, KlodState{})
	if next.Absorptions != 0 || next.MassMean != 0 || next.WindowStartTick != 10 {
		t.Errorf("collector not reset: %+v", next)
	}
}

func TestOutputManager(t *testing.T) {
	if om, err := NewOutputManager(""); om != nil || err != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}

	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}
	for i := int32(1); i <= 2; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 600, Absorptions: int(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents([]Event{NewShatterEvent(7, 1, 12, 4.2, "time_up")}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,mass") {
		t.Errorf("header = %q", lines[0])
	}

	events, err := os.ReadFile(filepath.Join(dir, "events.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(events, []byte("shatter")) || !bytes.Contains(events, []byte("time_up")) {
		t.Errorf("events.csv = %q", events)
	}
}
