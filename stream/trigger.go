// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

// Trigger multicasts every published value to its current subscribers.
// It retains nothing between publishes.
type Trigger[T any] struct {
	base[T]
}

// NewTrigger returns an empty [Trigger].
func NewTrigger[T any]() *Trigger[T] {
	return &Trigger[T]{}
}

// Subscribe registers h for future publishes.
func (t *Trigger[T]) Subscribe(h *Handler[T]) {
	t.q.add(h)
}

// On is shorthand for subscribing a new [Handler] wrapping fn.
func (t *Trigger[T]) On(fn func(T)) *Handler[T] {
	h := NewHandler(fn)
	t.Subscribe(h)
	return h
}

// Notify implements the [Notifier] interface.
func (t *Trigger[T]) Notify(fn func()) Unsubscriber {
	return t.On(func(T) { fn() })
}

// Publish invokes every current subscriber with v, in subscription order.
func (t *Trigger[T]) Publish(v T) {
	dispatch(t.q.snapshot(), v)
}

// FlushOnce behaves like [Trigger] except that its subscriber set is
// cleared by every publish. A callback which wants to observe the next
// publish must subscribe again.
type FlushOnce[T any] struct {
	base[T]
}

// NewFlushOnce returns an empty [FlushOnce].
func NewFlushOnce[T any]() *FlushOnce[T] {
	return &FlushOnce[T]{}
}

// Subscribe registers h for the next publish.
func (t *FlushOnce[T]) Subscribe(h *Handler[T]) {
	t.q.add(h)
}

// On is shorthand for subscribing a new [Handler] wrapping fn.
func (t *FlushOnce[T]) On(fn func(T)) *Handler[T] {
	h := NewHandler(fn)
	t.Subscribe(h)
	return h
}

// Notify implements the [Notifier] interface.
func (t *FlushOnce[T]) Notify(fn func()) Unsubscriber {
	return t.On(func(T) { fn() })
}

// Publish invokes every current subscriber with v and then forgets them.
func (t *FlushOnce[T]) Publish(v T) {
	hs := t.q.snapshot()
	t.q.clear()
	dispatch(hs, v)
}
