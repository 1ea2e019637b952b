package ledger

import (
	"context"
	"errors"

	"github.com/starford/fehu/internal/apperr"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/timer"
)

// StartTimer begins tracking on a time entry. When another entry is
// already running the call fails with ErrTimerRunning and returns that
// entry so the client can offer resume/stop/discard; the target entry
// is left completely untouched in that case. Starting an entry that is
// already running is idempotent.
func (s *Service) StartTimer(ctx context.Context, id string) (*models.TimeEntry, error) {
	running, err := s.db.RunningTimeEntry()
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if running != nil {
		if running.ID == id {
			return running, nil
		}
		return running, apperr.ErrTimerRunning
	}

	e, err := s.db.GetTimeEntry(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	e.TimerStartedAt = &now
	if err := s.db.UpdateTimeEntry(*e); err != nil {
		return nil, err
	}
	return e, nil
}

// StopTimer finalizes a running timer: elapsed fractional minutes are
// added to the duration, the amount recomputed and the start cleared.
// Stopping an entry that is not running is a no-op.
func (s *Service) StopTimer(ctx context.Context, id string) (*models.TimeEntry, error) {
	e, err := s.db.GetTimeEntry(id)
	if err != nil {
		return nil, err
	}
	if timer.StateOf(*e) != timer.Running {
		return e, nil
	}
	stopped := timer.Stop(*e, s.now())
	if err := s.db.UpdateTimeEntry(stopped); err != nil {
		return nil, err
	}
	return &stopped, nil
}

// DiscardTimer clears a running timer without crediting elapsed time.
func (s *Service) DiscardTimer(ctx context.Context, id string) (*models.TimeEntry, error) {
	e, err := s.db.GetTimeEntry(id)
	if err != nil {
		return nil, err
	}
	if timer.StateOf(*e) != timer.Running {
		return e, nil
	}
	discarded := timer.Discard(*e)
	if err := s.db.UpdateTimeEntry(discarded); err != nil {
		return nil, err
	}
	return &discarded, nil
}

// TimerElapsedMinutes reports the fractional minutes elapsed on a
// running entry, zero otherwise.
func (s *Service) TimerElapsedMinutes(e models.TimeEntry) float64 {
	if e.TimerStartedAt == nil {
		return 0
	}
	return timer.NewSession(*e.TimerStartedAt).ElapsedMinutes(s.now())
}
