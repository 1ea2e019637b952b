// Package timer implements the time-entry timer state machine.
//
// A timer moves idle → running → stopped. Only one entry may be running
// at a time; the service layer enforces that against the store before
// persisting a start. Elapsed time is always derived from the persisted
// start instant, cached once per session, never re-read between ticks.
package timer

import (
	"time"

	"github.com/starford/fehu/internal/models"
)

// State of a time entry's timer.
type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// StateOf reports the persisted timer state of an entry. A stopped
// timer is indistinguishable from an idle one at rest; Stopped only
// appears as the result of a Stop transition.
func StateOf(e models.TimeEntry) State {
	if e.TimerStartedAt != nil {
		return Running
	}
	return Idle
}

// Session wraps a cached start instant. The reference is taken once
// when the session begins so repeated elapsed reads cannot compound
// drift back into the stored start.
type Session struct {
	start time.Time
}

// NewSession creates a session for a confirmed start instant.
func NewSession(start time.Time) Session {
	return Session{start: start}
}

// ElapsedMinutes returns the fractional minutes elapsed at now.
// Clock skew producing a negative elapsed counts as zero.
func (s Session) ElapsedMinutes(now time.Time) float64 {
	d := now.Sub(s.start)
	if d < 0 {
		return 0
	}
	return d.Minutes()
}

// Amount computes the earned amount for a duration at an hourly rate.
func Amount(durationMinutes, hourlyRate float64) float64 {
	return durationMinutes / 60 * hourlyRate
}

// Stop finalizes a running timer: the elapsed fractional minutes are
// added to the previously persisted duration, the amount is recomputed
// from the hourly rate, and the start instant is cleared. A non-running
// entry is returned unchanged.
func Stop(e models.TimeEntry, now time.Time) models.TimeEntry {
	if e.TimerStartedAt == nil {
		return e
	}
	sess := NewSession(*e.TimerStartedAt)
	e.DurationMinutes += sess.ElapsedMinutes(now)
	e.Amount = Amount(e.DurationMinutes, e.HourlyRate)
	e.TimerStartedAt = nil
	return e
}

// Discard clears the start instant without crediting elapsed time:
// an explicit no-op stop.
func Discard(e models.TimeEntry) models.TimeEntry {
	e.TimerStartedAt = nil
	return e
}
