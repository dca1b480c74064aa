package contact

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultDelay      = 2 * time.Second
	DefaultResetAfter = 3 * time.Second
)

// Sink receives messages that completed the simulated send.
type Sink interface {
	SaveMessage(ctx context.Context, f Form, at time.Time) error
}

// Receipt describes a completed submission.
type Receipt struct {
	Form        Form
	SubmittedAt time.Time
	// ResetAfter is how long the view keeps the confirmation before it
	// shows an empty form again.
	ResetAfter time.Duration
}

// Simulator stands in for a mail backend: it waits a fixed delay and then
// reports success.
type Simulator struct {
	Delay      time.Duration
	ResetAfter time.Duration
	Sink       Sink
	Now        func() time.Time
}

func NewSimulator(sink Sink) *Simulator {
	return &Simulator{
		Delay:      DefaultDelay,
		ResetAfter: DefaultResetAfter,
		Sink:       sink,
		Now:        time.Now,
	}
}

// Submit validates f and waits out the simulated network delay. If ctx is
// cancelled first the pending task is cancelled, nothing reaches the
// sink, and ctx.Err() is returned.
func (s *Simulator) Submit(ctx context.Context, f Form) (Receipt, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return Receipt{}, &ValidationError{Fields: errs}
	}
	f = f.Trimmed()

	task := Schedule(s.Delay, func() {})
	select {
	case <-ctx.Done():
		task.Cancel()
		return Receipt{}, ctx.Err()
	case <-task.Done():
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	r := Receipt{Form: f, SubmittedAt: now(), ResetAfter: s.ResetAfter}

	if s.Sink != nil {
		if err := s.Sink.SaveMessage(ctx, f, r.SubmittedAt); err != nil {
			return Receipt{}, fmt.Errorf("save message: %w", err)
		}
	}
	return r, nil
}
