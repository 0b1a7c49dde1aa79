package score

// Countdown is the level timer. Holding the give-up input for the configured
// duration expires it immediately.
type Countdown struct {
	total    float32
	elapsed  float32
	giveUp   float32
	held     float32
	finished bool
	gaveUp   bool
}

// NewCountdown creates a timer of total seconds; giveUpHold is how long the
// give-up input must be held.
func NewCountdown(total, giveUpHold float32) *Countdown {
	return &Countdown{total: total, giveUp: giveUpHold}
}

// Reset restarts the timer with a new total.
func (c *Countdown) Reset(total float32) {
	c.total = total
	c.elapsed = 0
	c.held = 0
	c.finished = false
	c.gaveUp = false
}

// Tick advances the timer. It returns true exactly once, on the tick the
// timer runs out.
func (c *Countdown) Tick(dt float32, giveUpHeld bool) bool {
	if c.finished {
		return false
	}
	c.elapsed += dt
	if giveUpHeld {
		c.held += dt
	} else {
		c.held = 0
	}
	if giveUpHeld && c.held >= c.giveUp {
		c.elapsed = c.total
		c.gaveUp = true
	}
	if c.elapsed >= c.total {
		c.finished = true
		return true
	}
	return false
}

// Remaining returns the seconds left, never negative.
func (c *Countdown) Remaining() float32 {
	if r := c.total - c.elapsed; r > 0 {
		return r
	}
	return 0
}

func (c *Countdown) Finished() bool { return c.finished }

// GaveUp reports whether the timer was expired by the give-up input.
func (c *Countdown) GaveUp() bool { return c.gaveUp }

// Held returns how long the give-up input has been held.
func (c *Countdown) Held() float32 { return c.held }
