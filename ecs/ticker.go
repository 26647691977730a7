package ecs

import (
	"context"
	"time"
)

// Ticker schedules the engine's next tick. Implementations must call the
// scheduled function on the goroutine that drives them, at most once per
// Schedule call, and never after Cancel.
type Ticker interface {
	Schedule(tick func())
	Cancel()
}

// ManualTicker holds at most one pending tick and fires it when stepped. It
// suits tests and host loops that already have a frame callback.
type ManualTicker struct {
	pending func()
}

// Schedule replaces any pending tick with tick.
func (t *ManualTicker) Schedule(tick func()) {
	t.pending = tick
}

// Cancel drops the pending tick.
func (t *ManualTicker) Cancel() {
	t.pending = nil
}

// Pending reports whether a tick is waiting.
func (t *ManualTicker) Pending() bool {
	return t.pending != nil
}

// Step runs the pending tick, if any, and reports whether one ran.
func (t *ManualTicker) Step() bool {
	tick := t.pending
	if tick == nil {
		return false
	}
	t.pending = nil
	tick()
	return true
}

// IntervalTicker fires the pending tick at a fixed interval while Run is
// active.
type IntervalTicker struct {
	ManualTicker
	interval time.Duration
}

func NewIntervalTicker(interval time.Duration) *IntervalTicker {
	return &IntervalTicker{interval: interval}
}

// Interval returns the configured period.
func (t *IntervalTicker) Interval() time.Duration {
	return t.interval
}

// Run blocks, stepping once per interval on the calling goroutine, until ctx
// is done.
func (t *IntervalTicker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			t.Step()
		}
	}
}
