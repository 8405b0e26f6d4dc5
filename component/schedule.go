// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"sync"
	"time"
)

// Timer is a pending call created by a [Scheduler].
type Timer interface {
	// Stop prevents the call from running. It reports whether the
	// call was still pending.
	Stop() bool
}

// Scheduler runs deferred calls for debounced and throttled methods.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc is a func which implements the [Scheduler] interface.
type SchedulerFunc func(time.Duration, func()) Timer

// AfterFunc implements the [Scheduler] interface.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) Timer {
	return f(d, fn)
}

// RealTime schedules calls with [time.AfterFunc], which runs them on
// their own goroutine.
var RealTime Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})

// deferred implements debounce and throttle around fn. It is owned by
// the instance scope so pending calls are dropped on destroy.
type deferred[A, R any] struct {
	sched Scheduler
	wait  time.Duration
	fn    func(A) R

	mu         sync.Mutex
	timer      Timer
	gen        uint64
	last       R
	pending    A
	hasPending bool
	stopped    bool
}

func (d *deferred[A, R]) debounce(a A) R {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return d.last
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.run(a)
	})
	return d.last
}

func (d *deferred[A, R]) throttle(a A) R {
	d.mu.Lock()
	if d.stopped {
		defer d.mu.Unlock()
		return d.last
	}
	if d.timer != nil {
		d.pending = a
		d.hasPending = true
		defer d.mu.Unlock()
		return d.last
	}
	d.timer = d.sched.AfterFunc(d.wait, d.closeWindow)
	d.mu.Unlock()

	return d.run(a)
}

func (d *deferred[A, R]) closeWindow() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if !d.hasPending {
		d.timer = nil
		d.mu.Unlock()
		return
	}

	a := d.pending
	var zero A
	d.pending = zero
	d.hasPending = false
	d.timer = d.sched.AfterFunc(d.wait, d.closeWindow)
	d.mu.Unlock()

	d.run(a)
}

func (d *deferred[A, R]) run(a A) R {
	r := d.fn(a)

	d.mu.Lock()
	d.last = r
	d.mu.Unlock()
	return r
}

// Off drops any pending call and ignores every later one.
func (d *deferred[A, R]) Off() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
