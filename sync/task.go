package sync

import (
	"context"
	sysync "sync"
	"time"
)

// Debouncer is a trailing-edge debounce with cancelable in-flight work.
// Schedule replaces whatever was pending: the previous timer is stopped and
// the previous run's context canceled, so rescheduling always cancels the
// prior task before arming the next one. Only the final state after a quiet
// period ever runs.
type Debouncer struct {
	delay time.Duration

	mu     sysync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms fn to run after the quiet period, canceling any pending
// timer and aborting any in-flight run first. fn receives a context that is
// canceled by the next Schedule or by Stop; network calls inside fn should
// use it so a superseded push dies mid-request instead of landing late.
func (d *Debouncer) Schedule(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		fn(ctx)
	})
}

// Stop cancels the pending timer and aborts any in-flight run.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
