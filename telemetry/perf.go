package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseInput     = "input"
	PhasePhysics   = "physics"
	PhaseFreeFall  = "freefall"
	PhaseAbsorb    = "absorb"
	PhaseObstacles = "obstacles"
	PhaseCountdown = "countdown"
	PhaseShatter   = "shatter"
	PhaseAnimate   = "animate"
	PhaseTelemetry = "telemetry"
)

// Phases lists the simulation phases in tick order.
var Phases = []string{
	PhaseInput, PhasePhysics, PhaseFreeFall, PhaseAbsorb, PhaseObstacles,
	PhaseCountdown, PhaseShatter, PhaseAnimate, PhaseTelemetry,
}

// phaseSlot maps a phase name to its index in Phases.
var phaseSlot = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, p := range Phases {
		m[p] = i
	}
	return m
}()

// tickSample holds the timings of one tick, one slot per phase.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector times the simulation phases over a ring of recent ticks.
// Phase names outside Phases are timed as part of the tick but not broken out.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        []time.Duration // phase times of the tick in progress
	tickStart  time.Time
	phaseStart time.Time
	phase      int // slot of the running phase, -1 when none

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	ring := make([]tickSample, windowSize)
	for i := range ring {
		ring[i].phases = make([]time.Duration, len(Phases))
	}
	return &PerfCollector{ring: ring, cur: make([]time.Duration, len(Phases)), phase: -1, now: time.Now}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.phase = -1
	clear(p.cur)
}

// StartPhase ends the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	if slot, ok := phaseSlot[phase]; ok {
		p.phase = slot
	} else {
		p.phase = -1
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and commits it to the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.phase = -1

	slot := &p.ring[p.next]
	slot.total = now.Sub(p.tickStart)
	copy(slot.phases, p.cur)
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	P50TickDuration time.Duration
	P99TickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average duration and share of the average tick
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks in the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	sums := make([]time.Duration, len(Phases))
	for i := 0; i < p.count; i++ {
		sample := p.ring[i]
		ticks[i] = float64(sample.total)
		for slot, d := range sample.phases {
			sums[slot] += d
		}
	}
	slices.Sort(ticks)

	s.AvgTickDuration = time.Duration(stat.Mean(ticks, nil))
	s.P50TickDuration = time.Duration(stat.Quantile(0.5, stat.Empirical, ticks, nil))
	s.P99TickDuration = time.Duration(stat.Quantile(0.99, stat.Empirical, ticks, nil))
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for slot, sum := range sums {
		if sum == 0 {
			continue
		}
		name := Phases[slot]
		avg := sum / time.Duration(p.count)
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p99_tick_us", s.P99TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p50_tick_us", s.P50TickDuration.Microseconds()),
		slog.Int64("p99_tick_us", s.P99TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	P50TickUS    int64   `csv:"p50_tick_us"`
	P99TickUS    int64   `csv:"p99_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	FreeFallPct  float64 `csv:"freefall_pct"`
	AbsorbPct    float64 `csv:"absorb_pct"`
	ObstaclesPct float64 `csv:"obstacles_pct"`
	CountdownPct float64 `csv:"countdown_pct"`
	ShatterPct   float64 `csv:"shatter_pct"`
	AnimatePct   float64 `csv:"animate_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into one CSV row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		P50TickUS:    s.P50TickDuration.Microseconds(),
		P99TickUS:    s.P99TickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		PhysicsPct:   s.PhasePct[PhasePhysics],
		FreeFallPct:  s.PhasePct[PhaseFreeFall],
		AbsorbPct:    s.PhasePct[PhaseAbsorb],
		ObstaclesPct: s.PhasePct[PhaseObstacles],
		CountdownPct: s.PhasePct[PhaseCountdown],
		ShatterPct:   s.PhasePct[PhaseShatter],
		AnimatePct:   s.PhasePct[PhaseAnimate],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
