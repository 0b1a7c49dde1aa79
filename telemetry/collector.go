package telemetry

import "github.com/pthm-cable/klod/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	absorptions    int
	rejections     int
	shatters       int
	obstaclesBroke int
	limbsConsumed  int
	massGained     float64
	fallingTicks   int
	powersGained   components.PowerSet

	// Per-tick samples for the distribution columns
	massSamples  []float64
	speedSamples []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventAbsorb:
		c.absorptions++
		c.massGained += float64(ev.Amount)
		c.powersGained = c.powersGained.Add(ev.Power)
	case EventReject:
		c.rejections++
	case EventShatter:
		c.shatters++
	case EventObstacleBreak:
		c.obstaclesBroke++
	}
}

// RecordLimbsConsumed counts limbs spent breaking obstacles.
func (c *Collector) RecordLimbsConsumed(n int) {
	c.limbsConsumed += n
}

// Sample records the klod's state for one tick.
func (c *Collector) Sample(mass, speed float32, falling bool) {
	c.massSamples = append(c.massSamples, float64(mass))
	c.speedSamples = append(c.speedSamples, float64(speed))
	if falling {
		c.fallingTicks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// KlodState is the klod's state at window end.
type KlodState struct {
	Mass  float32
	Limbs int
	// Powers is the roster's power set.
	Powers components.PowerSet
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, klod KlodState) WindowStats {
	var acceptRate, fallingFrac float64
	if attempts := c.absorptions + c.rejections; attempts > 0 {
		acceptRate = float64(c.absorptions) / float64(attempts)
	}
	if n := len(c.massSamples); n > 0 {
		fallingFrac = float64(c.fallingTicks) / float64(n)
	}

	massMean, massStd, massP10, massP50, massP90 := ComputeDistribution(c.massSamples)
	speedMean, _, _, speedP50, speedP90 := ComputeDistribution(c.speedSamples)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Mass:   float64(klod.Mass),
		Limbs:  klod.Limbs,
		Powers: klod.Powers.String(),

		Absorptions:    c.absorptions,
		Rejections:     c.rejections,
		AcceptRate:     acceptRate,
		MassGained:     c.massGained,
		PowersGained:   c.powersGained.String(),
		Shatters:       c.shatters,
		ObstaclesBroke: c.obstaclesBroke,
		LimbsConsumed:  c.limbsConsumed,
		FallingFrac:    fallingFrac,

		MassMean: massMean,
		MassStd:  massStd,
		MassP10:  massP10,
		MassP50:  massP50,
		MassP90:  massP90,

		SpeedMean: speedMean,
		SpeedP50:  speedP50,
		SpeedP90:  speedP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.absorptions = 0
	c.rejections = 0
	c.shatters = 0
	c.obstaclesBroke = 0
	c.limbsConsumed = 0
	c.massGained = 0
	c.fallingTicks = 0
	c.powersGained = 0
	c.massSamples = c.massSamples[:0]
	c.speedSamples = c.speedSamples[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
