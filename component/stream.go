// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"fmt"
	"reflect"

	"github.com/z5labs/strata/stream"
)

// liveStream is the part of every stream variant a component relies on.
type liveStream[P any] interface {
	stream.Source[P]
	OffAll()
}

// StreamKey names a stream member delivering P through a stream of type S.
// The same key declares the member and looks it up on instances.
type StreamKey[P any, S liveStream[P]] struct {
	name      string
	kind      string
	newStream func() S
}

// TriggerOf returns the key of a [stream.Trigger] member.
func TriggerOf[T any](name string) StreamKey[T, *stream.Trigger[T]] {
	return StreamKey[T, *stream.Trigger[T]]{
		name:      name,
		kind:      "trigger",
		newStream: stream.NewTrigger[T],
	}
}

// FlushOnceOf returns the key of a [stream.FlushOnce] member.
func FlushOnceOf[T any](name string) StreamKey[T, *stream.FlushOnce[T]] {
	return StreamKey[T, *stream.FlushOnce[T]]{
		name:      name,
		kind:      "flush once trigger",
		newStream: stream.NewFlushOnce[T],
	}
}

// LatchOf returns the key of a [stream.Latch] member.
func LatchOf[T any](name string) StreamKey[T, *stream.Latch[T]] {
	return StreamKey[T, *stream.Latch[T]]{
		name:      name,
		kind:      "latch",
		newStream: stream.NewLatch[T],
	}
}

// ObservableOf returns the key of a [stream.Observable] member. Every
// instance gets its own observable configured by opts.
func ObservableOf[T any](name string, opts ...stream.ObservableOption[T]) StreamKey[stream.Change[T], *stream.Observable[T]] {
	return StreamKey[stream.Change[T], *stream.Observable[T]]{
		name: name,
		kind: "observable",
		newStream: func() *stream.Observable[T] {
			return stream.NewObservable(opts...)
		},
	}
}

// Name returns the member name.
func (k StreamKey[P, S]) Name() string {
	return k.name
}

// Declare declares the stream member with default listeners which are
// subscribed to the stream of every new instance.
func (k StreamKey[P, S]) Declare(listeners ...func(*Instance, P)) Decl {
	return &streamDecl[P, S]{
		key:       k,
		listeners: listeners,
	}
}

// Lookup returns the live stream of c.
func (k StreamKey[P, S]) Lookup(c *Instance) (S, bool) {
	return memberOf[S](c, k.name)
}

// Of returns the live stream of c. It panics if c has no such member.
func (k StreamKey[P, S]) Of(c *Instance) S {
	return mustMember[S](c, k.name)
}

type streamDecl[P any, S liveStream[P]] struct {
	key       StreamKey[P, S]
	listeners []func(*Instance, P)
}

func (d *streamDecl[P, S]) declare(c *contribution) {
	c.members = append(c.members, d)
}

func (d *streamDecl[P, S]) memberName() string {
	return d.key.name
}

func (d *streamDecl[P, S]) payload() reflect.Type {
	return reflect.TypeFor[P]()
}

func (d *streamDecl[P, S]) adapt(p reflect.Type) ([]binder, bool) {
	if p != d.payload() {
		return nil, false
	}
	return listenerBinders(d.listeners), true
}

func (d *streamDecl[P, S]) expand(c *Instance, r *resolved) error {
	s := d.key.newStream()
	c.addStream(d.key.name, s)

	for _, b := range listenerBinders(d.listeners) {
		c.queueListener(subscribeBinder[P](c, s, b))
	}
	for _, b := range r.listeners {
		c.queueListener(subscribeBinder[P](c, s, b))
	}

	c.configurable(d.key.name, func(v any) error {
		fn, ok := asConfigListener[P](c, v)
		if !ok {
			return fmt.Errorf("%w: %w", ErrUnexpectedType, TypeError{
				Want: fmt.Sprintf("%s listener func(%s)", d.key.kind, d.payload()),
				Got:  fmt.Sprintf("%T", v),
			})
		}
		c.queueListener(func() {
			s.Subscribe(stream.NewHandler(fn))
		})
		return nil
	})
	return nil
}

func listenerBinders[P any](listeners []func(*Instance, P)) []binder {
	bs := make([]binder, 0, len(listeners))
	for _, l := range listeners {
		bs = append(bs, func(c *Instance) any {
			return func(p P) { l(c, p) }
		})
	}
	return bs
}

// subscribeBinder returns a func which binds b to c and subscribes the
// result to s. Binders are type checked when definitions are merged.
func subscribeBinder[P any](c *Instance, s stream.Source[P], b binder) func() {
	return func() {
		fn, ok := asListener[P](b(c))
		if !ok {
			panic(fmt.Sprintf("component: listener bound to %s has unexpected type %T", c.name, b(c)))
		}
		s.Subscribe(stream.NewHandler(fn))
	}
}
