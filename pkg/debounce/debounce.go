package debounce

import (
	"context"
	"sync"
	"time"
)

// Func is the work a Debouncer runs. ctx is cancelled as soon as a newer
// call is scheduled or the Debouncer is stopped; seq identifies the call.
type Func func(ctx context.Context, seq uint64)

// Debouncer runs only the most recently scheduled Func of a channel.
// Every Schedule stops the pending timer and cancels the running call.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	cancel  context.CancelFunc
	seq     uint64
	stopped bool
}

// New creates a Debouncer.
func New() *Debouncer {
	return &Debouncer{}
}

// Schedule runs fn after delay unless another call supersedes it first.
// A zero delay still runs fn on its own goroutine. It returns the sequence
// number assigned to fn.
func (d *Debouncer) Schedule(delay time.Duration, fn Func) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersede()
	if d.stopped {
		return d.seq
	}

	ctx, cancel := context.WithCancel(context.Background())
	seq := d.seq
	d.cancel = cancel
	d.timer = time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx, seq)
	})

	return seq
}

// Cancel drops the pending call, if any, without scheduling a new one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersede()
}

// Current reports whether seq belongs to the latest scheduled call.
func (d *Debouncer) Current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return !d.stopped && seq == d.seq
}

// Stop cancels the pending call and makes further Schedule calls no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersede()
	d.stopped = true
}

func (d *Debouncer) supersede() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
