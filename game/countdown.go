package game

import (
	"time"

	"github.com/lixenwraith/vi-piano/engine"
)

// Countdown is a repeating tick that counts a fixed budget down to zero
// At most one scheduled handle exists per Countdown
type Countdown struct {
	sched     engine.Scheduler
	budget    time.Duration
	step      time.Duration
	remaining time.Duration
	task      engine.Task
	gen       uint64

	onTick    func(remaining time.Duration)
	onTimeout func()
}

// NewCountdown creates an idle countdown; callbacks may be nil
func NewCountdown(sched engine.Scheduler, budget, step time.Duration, onTick func(time.Duration), onTimeout func()) *Countdown {
	if onTick == nil {
		onTick = func(time.Duration) {}
	}
	if onTimeout == nil {
		onTimeout = func() {}
	}
	return &Countdown{
		sched:     sched,
		budget:    budget,
		step:      step,
		onTick:    onTick,
		onTimeout: onTimeout,
	}
}

// Start resets remaining time to the budget and begins ticking
// A running handle is cancelled first
func (c *Countdown) Start() {
	c.Cancel()
	c.remaining = c.budget
	gen := c.gen
	c.task = c.sched.Every(c.step, func() { c.tick(gen) })
}

func (c *Countdown) tick(gen uint64) {
	// Ticks from a cancelled handle are dropped
	if gen != c.gen || c.task == nil {
		return
	}
	c.remaining -= c.step
	if c.remaining < 0 {
		c.remaining = 0
	}
	c.onTick(c.remaining)
	if c.remaining <= 0 {
		c.Cancel()
		c.onTimeout()
	}
}

// Cancel stops future ticks without firing the timeout
func (c *Countdown) Cancel() {
	if c.task == nil {
		return
	}
	c.task.Cancel()
	c.task = nil
	c.gen++
}

// Active reports whether a handle is scheduled
func (c *Countdown) Active() bool {
	return c.task != nil
}

// Remaining returns the time left at the last tick
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

// Budget returns the full countdown duration
func (c *Countdown) Budget() time.Duration {
	return c.budget
}
