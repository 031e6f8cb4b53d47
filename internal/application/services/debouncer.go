package services

import (
	"sync"
	"time"
)

// Debouncer delivers only the last value triggered within a quiet interval.
// Earlier values in the same burst are discarded.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending T
	gen     uint64
	emit    func(T)
	running int
	idle    *sync.Cond
}

// NewDebouncer creates a debouncer calling emit on its own goroutine once
// delay has passed without a new Trigger.
func NewDebouncer[T any](delay time.Duration, emit func(T)) *Debouncer[T] {
	d := &Debouncer[T]{delay: delay, emit: emit}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Trigger records v and restarts the quiet interval
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = v
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, v) })
}

// Stop drops any pending value. It reports whether one was pending.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	// A timer that already fired may race a later Trigger or Stop.
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running++
	d.mu.Unlock()

	d.run(v)
}

// run emits v and wakes Flush callers once no emission is left running.
// running was incremented under mu by the caller.
func (d *Debouncer[T]) run(v T) {
	defer func() {
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.emit(v)
}

// Flush waits for any emission already running, then emits a pending value on
// the caller's goroutine without waiting out the quiet interval. It reports
// whether a pending value was emitted. It is safe to call concurrently with
// Trigger.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	pending := d.timer != nil
	var v T
	if pending {
		d.gen++
		d.timer.Stop()
		d.timer = nil
		v = d.pending
	}
	for d.running > 0 {
		d.idle.Wait()
	}
	if !pending {
		d.mu.Unlock()
		return false
	}
	d.running++
	d.mu.Unlock()

	d.run(v)
	return true
}
