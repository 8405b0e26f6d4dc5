// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

// Latch is a barrier which opens on its first publish. Subscribers
// queued before it opens are invoked exactly once with the published
// value; subscribers arriving afterwards are invoked immediately with
// the same value. Every publish after the first is ignored.
type Latch[T any] struct {
	base[T]
	opened bool
	value  T
}

// NewLatch returns a closed [Latch].
func NewLatch[T any]() *Latch[T] {
	return &Latch[T]{}
}

// Subscribe queues h until the latch opens, or invokes it immediately
// if the latch is already open.
func (l *Latch[T]) Subscribe(h *Handler[T]) {
	if l.opened {
		h.fn(l.value)
		return
	}
	l.q.add(h)
}

// On is shorthand for subscribing a new [Handler] wrapping fn.
func (l *Latch[T]) On(fn func(T)) *Handler[T] {
	h := NewHandler(fn)
	l.Subscribe(h)
	return h
}

// Notify implements the [Notifier] interface.
func (l *Latch[T]) Notify(fn func()) Unsubscriber {
	return l.On(func(T) { fn() })
}

// Publish opens the latch with v. It is a no-op once the latch is open.
func (l *Latch[T]) Publish(v T) {
	if l.opened {
		return
	}
	l.opened = true
	l.value = v

	hs := l.q.snapshot()
	l.q.clear()
	dispatch(hs, v)
}

// Opened reports whether the latch has been published to.
func (l *Latch[T]) Opened() bool {
	return l.opened
}

// Value returns the value the latch opened with. The second return
// value is false while the latch is still closed.
func (l *Latch[T]) Value() (T, bool) {
	return l.value, l.opened
}
