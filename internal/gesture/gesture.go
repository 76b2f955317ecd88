// Package gesture disambiguates single from double presses (clicks or taps)
// as an explicit state machine with an injectable clock, so the timing logic
// is testable without real timers.
package gesture

import "time"

// DefaultWindow is how long after a first press a second press still counts
// as a double.
const DefaultWindow = 300 * time.Millisecond

type Action int

const (
	// ActionNone: the press armed the machine; nothing fires yet.
	ActionNone Action = iota
	// ActionSingle fires when the window expires with no second press.
	ActionSingle
	// ActionDouble fires on a second press inside the window.
	ActionDouble
)

type State int

const (
	StateIdle State = iota
	StateArmed
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Disambiguator resolves press events. Not safe for concurrent use; UI event
// streams are single-threaded.
type Disambiguator struct {
	clock   Clock
	window  time.Duration
	state   State
	armedAt time.Time
}

func New() *Disambiguator {
	return NewWithClock(systemClock{}, DefaultWindow)
}

func NewWithClock(clock Clock, window time.Duration) *Disambiguator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Disambiguator{clock: clock, window: window}
}

func (d *Disambiguator) State() State { return d.state }

// Press feeds one press event into the machine. A press on an idle machine
// arms it and returns ActionNone; a second press within the window fires
// ActionDouble and resets. A press after the window expired drops the stale
// arm (callers that missed Resolve lose the single) and re-arms.
func (d *Disambiguator) Press() Action {
	now := d.clock.Now()

	if d.state == StateArmed && now.Sub(d.armedAt) <= d.window {
		d.state = StateIdle
		return ActionDouble
	}

	d.state = StateArmed
	d.armedAt = now
	return ActionNone
}

// Resolve reports whether an armed press has timed out into a single press.
// Callers poll it (or schedule it at Deadline); it returns ActionSingle at
// most once per armed press.
func (d *Disambiguator) Resolve() Action {
	if d.state != StateArmed {
		return ActionNone
	}
	if d.clock.Now().Sub(d.armedAt) <= d.window {
		return ActionNone
	}

	d.state = StateIdle
	return ActionSingle
}

// Deadline returns when an armed press resolves into a single press, and
// false when the machine is idle.
func (d *Disambiguator) Deadline() (time.Time, bool) {
	if d.state != StateArmed {
		return time.Time{}, false
	}
	return d.armedAt.Add(d.window), true
}
