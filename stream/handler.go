// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

import "slices"

// Unsubscriber is anything which can sever its own subscriptions.
type Unsubscriber interface {
	Off()
}

// Source is anything a [Handler] can be subscribed to.
type Source[T any] interface {
	Subscribe(*Handler[T])
}

// Notifier is implemented by every stream and allows subscribing
// a payload agnostic callback.
type Notifier interface {
	Notify(func()) Unsubscriber
}

// Handler is a subscribable callback. Its pointer identity is what
// streams use to de-duplicate and remove subscriptions.
type Handler[T any] struct {
	fn     func(T)
	queues []*queue[T]
}

// NewHandler wraps fn in a [Handler].
func NewHandler[T any](fn func(T)) *Handler[T] {
	return &Handler[T]{fn: fn}
}

// Off removes the handler from every stream it is currently subscribed to.
// Calling Off on an unsubscribed handler is a no-op.
func (h *Handler[T]) Off() {
	for len(h.queues) > 0 {
		h.queues[len(h.queues)-1].remove(h)
	}
}

// Subscriptions returns the number of streams h is currently subscribed to.
func (h *Handler[T]) Subscriptions() int {
	return len(h.queues)
}

func (h *Handler[T]) forget(q *queue[T]) {
	i := slices.Index(h.queues, q)
	if i < 0 {
		return
	}
	h.queues = slices.Delete(h.queues, i, i+1)
}

// queue is the ordered subscriber set of a single stream. Every entry is
// mirrored in the handler's reverse index and both sides are always
// updated together.
type queue[T any] struct {
	handlers []*Handler[T]
}

func (q *queue[T]) has(h *Handler[T]) bool {
	return slices.Contains(q.handlers, h)
}

func (q *queue[T]) add(h *Handler[T]) bool {
	if q.has(h) {
		return false
	}
	q.handlers = append(q.handlers, h)
	h.queues = append(h.queues, q)
	return true
}

func (q *queue[T]) remove(h *Handler[T]) {
	i := slices.Index(q.handlers, h)
	if i < 0 {
		return
	}
	q.handlers = slices.Delete(q.handlers, i, i+1)
	h.forget(q)
}

func (q *queue[T]) clear() {
	for _, h := range q.handlers {
		h.forget(q)
	}
	q.handlers = nil
}

func (q *queue[T]) snapshot() []*Handler[T] {
	return slices.Clone(q.handlers)
}

func dispatch[T any](hs []*Handler[T], v T) {
	for _, h := range hs {
		h.fn(v)
	}
}

// base carries the subscription bookkeeping shared by all variants.
type base[T any] struct {
	q queue[T]
}

// Off removes h from this stream only.
func (b *base[T]) Off(h *Handler[T]) {
	b.q.remove(h)
}

// OffAll removes every subscriber from this stream.
func (b *base[T]) OffAll() {
	b.q.clear()
}

// Len returns the number of current subscribers.
func (b *base[T]) Len() int {
	return len(b.q.handlers)
}

// Has reports whether h is currently subscribed to this stream.
func (b *base[T]) Has(h *Handler[T]) bool {
	return b.q.has(h)
}
