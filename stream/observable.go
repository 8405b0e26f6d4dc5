// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

import "reflect"

// Change is the payload delivered by an [Observable].
type Change[T any] struct {
	Value T

	// Prev is only meaningful when HasPrev is true. HasPrev is false
	// for the very first value an observable stores, for replays
	// to new subscribers and for [Observable.Force].
	Prev    T
	HasPrev bool
}

// ObservableOption configures an [Observable].
type ObservableOption[T any] func(*Observable[T])

// WithValue sets the initial value of the observable.
func WithValue[T any](v T) ObservableOption[T] {
	return func(o *Observable[T]) {
		o.initial = &v
	}
}

// TrackByReference makes the observable compare values by identity
// instead of by deep equality. Maps, slices, pointers, channels and
// funcs are identical when they refer to the same underlying data.
func TrackByReference[T any]() ObservableOption[T] {
	return func(o *Observable[T]) {
		o.equal = identical[T]
	}
}

// Coerce registers a function applied to every value before it is
// compared with, and possibly stored as, the current value.
func Coerce[T any](f func(T) T) ObservableOption[T] {
	return func(o *Observable[T]) {
		o.coerce = f
	}
}

// Observable retains the last published value and only dispatches
// when a publish changes it.
type Observable[T any] struct {
	base[Change[T]]

	value    T
	hasValue bool
	initial  *T
	equal    func(a, b T) bool
	coerce   func(T) T
}

// NewObservable returns an [Observable] configured by opts.
func NewObservable[T any](opts ...ObservableOption[T]) *Observable[T] {
	o := &Observable[T]{
		equal: deepEqual[T],
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.initial != nil {
		o.value = o.applyCoerce(*o.initial)
		o.hasValue = true
		o.initial = nil
	}
	return o
}

// Subscribe registers h for future changes. If the observable already
// holds a value h is invoked immediately with it.
func (o *Observable[T]) Subscribe(h *Handler[Change[T]]) {
	if !o.q.add(h) {
		return
	}
	if o.hasValue {
		h.fn(Change[T]{Value: o.value})
	}
}

// Watch registers h for future changes without replaying the current value.
func (o *Observable[T]) Watch(h *Handler[Change[T]]) {
	o.q.add(h)
}

// On is shorthand for subscribing a new [Handler] wrapping fn.
func (o *Observable[T]) On(fn func(Change[T])) *Handler[Change[T]] {
	h := NewHandler(fn)
	o.Subscribe(h)
	return h
}

// Notify implements the [Notifier] interface.
func (o *Observable[T]) Notify(fn func()) Unsubscriber {
	return o.On(func(Change[T]) { fn() })
}

// Publish stores v and notifies subscribers, unless v equals the current value.
func (o *Observable[T]) Publish(v T) {
	v = o.applyCoerce(v)
	if o.hasValue && o.equal(o.value, v) {
		return
	}

	c := Change[T]{
		Value:   v,
		Prev:    o.value,
		HasPrev: o.hasValue,
	}
	o.value = v
	o.hasValue = true

	dispatch(o.q.snapshot(), c)
}

// Force re-publishes the current value to every subscriber even though
// it did not change. It is a no-op while the observable holds no value.
func (o *Observable[T]) Force() {
	if !o.hasValue {
		return
	}
	dispatch(o.q.snapshot(), Change[T]{Value: o.value})
}

// When subscribes a one-shot listener. The first time pred holds for the
// observed value the listener unsubscribes itself and calls fn.
func (o *Observable[T]) When(pred func(T) bool, fn func(T)) *Handler[Change[T]] {
	var h *Handler[Change[T]]
	h = NewHandler(func(c Change[T]) {
		if !pred(c.Value) {
			return
		}
		h.Off()
		fn(c.Value)
	})
	o.Subscribe(h)
	return h
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	return o.value
}

// HasValue reports whether a value has ever been stored.
func (o *Observable[T]) HasValue() bool {
	return o.hasValue
}

func (o *Observable[T]) applyCoerce(v T) T {
	if o.coerce == nil {
		return v
	}
	return o.coerce(v)
}

func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

func identical[T any](a, b T) bool {
	va := reflect.ValueOf(any(a))
	vb := reflect.ValueOf(any(b))
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}
