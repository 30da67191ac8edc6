// Package cooking holds the cook-duration policy and the per-item
// countdown driven by the board's heartbeat.
package cooking

import "udonboard/internal/models"

// DurationPolicy maps firmness and cooking mode to a cook duration in
// seconds. All values are whole seconds because the board ticks once
// per second.
type DurationPolicy struct {
	SoftSecs   int
	NormalSecs int
	FirmSecs   int

	// PreBoilReductionSecs is subtracted from the base duration when
	// the item is pre-boiled, floored at MinSecs. Pre-boiled noodles
	// still need a finishing heat cycle, hence the floor.
	PreBoilReductionSecs int
	MinSecs              int
}

// ProductionPolicy returns the timing used at a real counter.
func ProductionPolicy() DurationPolicy {
	return DurationPolicy{
		SoftSecs:             300,
		NormalSecs:           420,
		FirmSecs:             600,
		PreBoilReductionSecs: 600,
		MinSecs:              120,
	}
}

// DemoPolicy returns compressed timing for demos and tests.
func DemoPolicy() DurationPolicy {
	return DurationPolicy{
		SoftSecs:             20,
		NormalSecs:           40,
		FirmSecs:             60,
		PreBoilReductionSecs: 10,
		MinSecs:              5,
	}
}

// Duration computes the cook duration for the given firmness and mode.
// Unknown firmness falls back to normal, matching the counter's habit
// of boiling unmarked tickets as regular.
func (p DurationPolicy) Duration(firmness models.Firmness, mode models.CookingMode) int {
	secs := p.NormalSecs
	switch firmness {
	case models.FirmnessSoft:
		secs = p.SoftSecs
	case models.FirmnessNormal:
		secs = p.NormalSecs
	case models.FirmnessFirm:
		secs = p.FirmSecs
	}
	if mode == models.ModePreBoiled {
		secs -= p.PreBoilReductionSecs
	}
	if secs < p.MinSecs {
		secs = p.MinSecs
	}
	return secs
}

// Timer is a one-shot countdown for a single cooking item. It is a
// plain value mutated under the board's lock; the board applies one
// Tick per heartbeat to every running timer.
type Timer struct {
	total     int
	remaining int
	running   bool
	fired     bool
}

// Start arms the timer for secs seconds. Restarting an armed timer
// resets the countdown and re-arms the completion signal.
func (t *Timer) Start(secs int) {
	if secs < 0 {
		secs = 0
	}
	t.total = secs
	t.remaining = secs
	t.running = true
	t.fired = false
}

// Stop halts the countdown without firing. Once stopped, no completion
// signal is delivered for this run.
func (t *Timer) Stop() {
	t.running = false
}

// Tick applies one second of countdown. It returns true exactly once:
// on the tick that brings the remaining time to zero. Further ticks,
// ticks on a stopped timer, and ticks on an expired timer return false.
func (t *Timer) Tick() bool {
	if !t.running || t.remaining <= 0 {
		return false
	}
	t.remaining--
	if t.remaining == 0 && !t.fired {
		t.fired = true
		return true
	}
	return false
}

// Running reports whether the timer is counting down.
func (t *Timer) Running() bool {
	return t.running && t.remaining > 0
}

// Remaining returns the seconds left; never negative.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Total returns the armed duration in seconds.
func (t *Timer) Total() int {
	return t.total
}
