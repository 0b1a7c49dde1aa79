package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/pthm-cable/klod/score"
	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/telemetry"
)

// Controls is the player's input for one tick.
type Controls struct {
	Steer       systems.Steer
	SnapToSpawn bool // move the klod back to the spawn point
	RecordSpawn bool // make the klod's current pose the spawn point
	GiveUp      bool // held to expire the countdown
}

// UpdateHeadless runs StepsPerUpdate ticks without reading any device.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate && !g.done; i++ {
		var ctl Controls
		if g.autopilot {
			ctl.Steer = g.autopilotSteer()
		}
		g.simulationStep(ctl)
	}
}

// simulationStep runs a single tick in a fixed order.
func (g *Game) simulationStep(ctl Controls) {
	g.perfCollector.StartTick()
	playing := g.state == StatePlaying

	// 1. Input
	g.perfCollector.StartPhase(telemetry.PhaseInput)
	if playing {
		g.applyControls(ctl)
		g.input.Update(ctl.Steer, g.cam.HorizontalRotation())
	}

	// 2. Physics: integrate, resolve, collect contacts
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Step(g.dt)
	contacts := g.physics.Contacts()
	g.followKlod()

	// 3. Free fall
	g.perfCollector.StartPhase(telemetry.PhaseFreeFall)
	g.freeFall.Update(g.physics)

	if playing {
		// 4. Contacts to absorb requests
		g.perfCollector.StartPhase(telemetry.PhaseAbsorb)
		g.absorb.Detect(contacts)

		// 5. Obstacles
		g.perfCollector.StartPhase(telemetry.PhaseObstacles)
		for _, b := range g.obstacles.Update(contacts) {
			g.collector.RecordLimbsConsumed(len(b.Consumed))
			g.record(telemetry.NewObstacleBreakEvent(g.tick, b.Obstacle.ID(), b.Required, g.klodMass()))
		}

		// 6. Apply absorptions in request order
		g.perfCollector.StartPhase(telemetry.PhaseAbsorb)
		for _, r := range g.absorb.Apply() {
			if r.Accepted {
				g.record(telemetry.NewAbsorbEvent(g.tick, r.Klod.ID(), r.Candidate.ID(), r.Weight, r.NewMass, r.Power))
			} else {
				g.record(telemetry.NewRejectEvent(g.tick, r.Klod.ID(), r.Candidate.ID(), r.Weight, r.NewMass))
			}
		}
	}

	// 7. Countdown and finish zone
	g.perfCollector.StartPhase(telemetry.PhaseCountdown)
	g.updateFlow(ctl)

	// 8. Shatter
	g.perfCollector.StartPhase(telemetry.PhaseShatter)
	if res, ok := g.shatter.Update(); ok {
		g.recordShatter(res)
	}

	// 9. Animation
	g.perfCollector.StartPhase(telemetry.PhaseAnimate)
	g.animate.Update(g.dt)

	// 10. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.sampleKlod()
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// applyControls handles the spawn-point keys.
func (g *Game) applyControls(ctl Controls) {
	klod, ok := g.roster.Klod()
	if !ok {
		return
	}
	if ctl.SnapToSpawn {
		g.klods.Teleport(g.spawn)
		slog.Debug("klod snapped to spawn", "tick", g.tick)
	}
	if ctl.RecordSpawn {
		g.spawn = g.maps.WorldTransform(klod)
		slog.Info("spawn recorded", "tick", g.tick, "at", g.spawn.Translation)
	}
}

// followKlod moves the camera target to the followed entity.
func (g *Game) followKlod() {
	if e, ok := g.cam.Following(); ok && g.maps.Alive(e) {
		g.cam.Update(g.maps.WorldTransform(e).Translation)
	}
}

// updateFlow advances the level state machine.
func (g *Game) updateFlow(ctl Controls) {
	switch g.state {
	case StatePlaying:
		if g.countdown.Tick(g.dt, ctl.GiveUp) {
			reason := systems.ShatterTimeUp
			if g.countdown.GaveUp() {
				reason = systems.ShatterGiveUp
			}
			// Score before the shatter resets the mass.
			g.endLevel()
			g.shatter.Request(reason)
			g.setState(StateTimeUp)
			return
		}
		if g.reachedFinish() {
			g.endLevel()
			g.setState(StateGameComplete)
		}
	case StateTimeUp:
		g.setState(StateGameComplete)
	}
}

// reachedFinish reports whether the klod's core ball touches the finish zone.
func (g *Game) reachedFinish() bool {
	if !g.hasFinish || !g.maps.Alive(g.finish) {
		return false
	}
	klod, ok := g.roster.Klod()
	if !ok {
		return false
	}
	for _, limb := range g.roster.Limbs(klod) {
		if g.maps.KlodBall.Has(limb) && g.physics.Touching(limb, g.finish) {
			return true
		}
	}
	return false
}

// currentScore scores the klod as if the level ended now.
func (g *Game) currentScore() score.Score {
	return score.Score{
		BoneMass:      score.BoneMass(g.klodMass(), g.tuning.BaselineMass, g.boneFactor),
		TimeRemaining: g.countdown.Remaining(),
		RequiredMana:  g.required,
	}
}

// endLevel captures the result and records it in the store.
func (g *Game) endLevel() {
	g.result = g.currentScore()
	g.hasResult = true

	var klodID uint32
	if klod, ok := g.roster.Klod(); ok {
		klodID = klod.ID()
	}
	g.record(telemetry.NewFinishEvent(g.tick, klodID, g.klodMass(), g.result.Hint()))

	slog.Info("level ended",
		"tick", g.tick,
		"level", g.levelName,
		"bone_mass", g.result.BoneMass,
		"time_remaining", g.result.TimeRemaining,
		"mana", g.result.Mana(),
		"won", g.result.Won(),
		"hint", g.result.Hint(),
	)

	if g.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.store.Record(ctx, score.NewResult(g.levelName, g.result, time.Now())); err != nil {
		slog.Error("failed to record result", "error", err)
		return
	}
	best, err := g.store.Best(ctx, g.levelName, 5)
	if err != nil {
		slog.Error("failed to read best results", "error", err)
		return
	}
	g.best = best
}

// klodMass returns the klod's mass, or the baseline when there is none.
func (g *Game) klodMass() float32 {
	if klod, ok := g.roster.Klod(); ok {
		return g.maps.Klod.Get(klod).Mass
	}
	return g.tuning.BaselineMass
}
