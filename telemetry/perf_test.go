package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakePerf(window int) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, clock := newFakePerf(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		clock.advance(100 * time.Microsecond)
		pc.StartPhase(PhaseAbsorb)
		clock.advance(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhasePhysics]; !ok {
		t.Error("expected physics phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseAbsorb]; !ok {
		t.Error("expected absorb phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newFakePerf(5) // Small window

	// Ten ticks; only the last five (1ms each) stay in the window.
	for i := 0; i < 10; i++ {
		d := 9 * time.Millisecond
		if i >= 5 {
			d = time.Millisecond
		}
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		clock.advance(d)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration != time.Millisecond {
		t.Errorf("AvgTickDuration = %v, want 1ms", stats.AvgTickDuration)
	}
	if stats.MaxTickDuration != time.Millisecond {
		t.Errorf("MaxTickDuration = %v, want 1ms", stats.MaxTickDuration)
	}
	if math.Abs(stats.TicksPerSecond-1000) > 1e-6 {
		t.Errorf("TicksPerSecond = %v, want 1000", stats.TicksPerSecond)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc, clock := newFakePerf(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseInput)
		clock.advance(100 * time.Microsecond)
		pc.StartPhase(PhasePhysics)
		clock.advance(900 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	tests := []struct {
		phase   string
		wantAvg time.Duration
		wantPct float64
	}{
		{PhaseInput, 100 * time.Microsecond, 10},
		{PhasePhysics, 900 * time.Microsecond, 90},
	}
	for _, tt := range tests {
		t.Run(tt.phase, func(t *testing.T) {
			if got := stats.PhaseAvg[tt.phase]; got != tt.wantAvg {
				t.Errorf("PhaseAvg = %v, want %v", got, tt.wantAvg)
			}
			if got := stats.PhasePct[tt.phase]; math.Abs(got-tt.wantPct) > 1e-9 {
				t.Errorf("PhasePct = %v, want %v", got, tt.wantPct)
			}
		})
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc, clock := newFakePerf(10)

	// First call establishes baseline
	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("expected no FPS after a single frame")
	}
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 20ms", stats.FrameDuration)
	}
	if math.Abs(stats.FPS-50) > 1e-9 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct:        map[string]float64{PhasePhysics: 60, PhaseAbsorb: 15},
	}
	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.PhysicsPct != 60 || row.AbsorbPct != 15 || row.ShatterPct != 0 {
		t.Errorf("phase columns = %v/%v/%v, want 60/15/0", row.PhysicsPct, row.AbsorbPct, row.ShatterPct)
	}
}

func TestPerfCollector_UnknownPhaseNotBrokenOut(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase("render")
	pc.StartPhase(PhaseShatter)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["render"]; ok {
		t.Error("unknown phase should not appear in the breakdown")
	}
	if stats.MaxTickDuration < stats.P50TickDuration {
		t.Errorf("max %v below median %v", stats.MaxTickDuration, stats.P50TickDuration)
	}
}

func TestPerfCollector_StatsMidTick(t *testing.T) {
	pc, clock := newFakePerf(2)
	for i := 0; i < 2; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		clock.advance(50 * time.Microsecond)
		pc.EndTick()
	}
	before := pc.Stats().PhaseAvg[PhasePhysics]

	// A window flush runs inside the telemetry phase, before EndTick.
	pc.StartTick()
	pc.StartPhase(PhasePhysics)
	clock.advance(time.Millisecond)
	pc.StartPhase(PhaseTelemetry)
	if got := pc.Stats().PhaseAvg[PhasePhysics]; got != before {
		t.Errorf("physics avg changed mid-tick: %v -> %v", before, got)
	}
	pc.EndTick()
}
