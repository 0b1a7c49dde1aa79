package game

import (
	"log/slog"

	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/telemetry"
)

// record counts an event in the stats window and queues it for the event log.
func (g *Game) record(ev telemetry.Event) {
	g.collector.Record(ev)
	if g.outputManager != nil {
		g.events = append(g.events, ev)
	}
}

func (g *Game) recordShatter(res systems.ShatterResult) {
	g.record(telemetry.NewShatterEvent(g.tick, res.Klod.ID(), res.MassBefore, g.tuning.BaselineMass, res.Reason.String()))
}

// sampleKlod feeds the klod's per-tick state to the collector.
func (g *Game) sampleKlod() {
	klod, ok := g.roster.Klod()
	if !ok {
		return
	}
	m := g.maps
	var speed float32
	if m.Velocity.Has(klod) {
		speed = m.Velocity.Get(klod).Linear.Len()
	}
	falling := m.FreeFall.Has(klod) && m.FreeFall.Get(klod).Falling
	g.collector.Sample(m.Klod.Get(klod).Mass, speed, falling)
}

// klodState summarizes the klod for a window flush.
func (g *Game) klodState() telemetry.KlodState {
	klod, ok := g.roster.Klod()
	if !ok {
		return telemetry.KlodState{Mass: g.tuning.BaselineMass}
	}
	powers, _ := g.roster.Powers(klod)
	return telemetry.KlodState{
		Mass:   g.maps.Klod.Get(klod).Mass,
		Limbs:  len(g.roster.Limbs(klod)),
		Powers: powers,
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.klodState())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if len(g.events) > 0 {
			if err := g.outputManager.WriteEvents(g.events); err != nil {
				slog.Error("failed to write events", "error", err)
			}
			g.events = g.events[:0]
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// powersLabel lists the klod's powers for the HUD.
func (g *Game) powersLabel() string {
	s := g.klodState().Powers
	if s.Empty() {
		return "none"
	}
	return s.String()
}
