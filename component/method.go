// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/z5labs/strata/stream"
)

// Call is published on the after hook stream of a bindable method.
type Call[A, R any] struct {
	Arg    A
	Result R
}

// MethodKey names a method member taking an A and returning an R.
type MethodKey[A, R any] struct {
	name string
}

// MethodOf returns the key of a method member.
func MethodOf[A, R any](name string) MethodKey[A, R] {
	return MethodKey[A, R]{name: name}
}

// Name returns the member name.
func (k MethodKey[A, R]) Name() string {
	return k.name
}

type methodOptions struct {
	bindable bool
	memoize  bool
	debounce time.Duration
	throttle time.Duration
}

// MethodOption configures a method declaration.
type MethodOption func(*methodOptions)

// Bindable exposes before and after hook streams around every call.
// Members named before<Name> and after<Name>, where <Name> is the method
// name with its first letter upper cased, are subscribed to them.
// A before hook receives A. An after hook receives a [Call].
func Bindable() MethodOption {
	return func(mo *methodOptions) {
		mo.bindable = true
	}
}

// Memoize caches the result of the method per argument. A must be comparable.
func Memoize() MethodOption {
	return func(mo *methodOptions) {
		mo.memoize = true
	}
}

// Debounce delays every call until d has passed without another call and
// then invokes the method once with the latest argument. A debounced call
// returns the result of the most recent invocation.
func Debounce(d time.Duration) MethodOption {
	return func(mo *methodOptions) {
		mo.debounce = d
	}
}

// Throttle invokes the method at most once per d. The first call of a
// window runs immediately; the latest call made during the window runs
// when it closes. A throttled call returns the result of the most recent
// invocation.
func Throttle(d time.Duration) MethodOption {
	return func(mo *methodOptions) {
		mo.throttle = d
	}
}

// Impl declares the method.
func (k MethodKey[A, R]) Impl(fn func(*Instance, A) R, opts ...MethodOption) Decl {
	d := &methodDecl[A, R]{key: k, fn: fn}
	for _, opt := range opts {
		opt(&d.opts)
	}
	return d
}

func (k MethodKey[A, R]) lookup(c *Instance) *method[A, R] {
	m, ok := c.methods[k.name].(*method[A, R])
	if !ok {
		panic(fmt.Sprintf("component: %s has no method %s(%s) %s", c.name, k.name, reflect.TypeFor[A](), reflect.TypeFor[R]()))
	}
	return m
}

// Call invokes the method of c with a.
func (k MethodKey[A, R]) Call(c *Instance, a A) R {
	return k.lookup(c).call(a)
}

// Func returns the method of c as a function value bound to c.
func (k MethodKey[A, R]) Func(c *Instance) func(A) R {
	return k.lookup(c).call
}

// Before returns the stream published before every call of a bindable
// method. It returns nil if the method is not bindable.
func (k MethodKey[A, R]) Before(c *Instance) *stream.Trigger[A] {
	return k.lookup(c).before
}

// After returns the stream published after every call of a bindable
// method. It returns nil if the method is not bindable.
func (k MethodKey[A, R]) After(c *Instance) *stream.Trigger[Call[A, R]] {
	return k.lookup(c).after
}

type methodDecl[A, R any] struct {
	key  MethodKey[A, R]
	fn   func(*Instance, A) R
	opts methodOptions
}

func (d *methodDecl[A, R]) declare(c *contribution) {
	c.members = append(c.members, d)
}

func (d *methodDecl[A, R]) memberName() string {
	return d.key.name
}

func (d *methodDecl[A, R]) callType() reflect.Type {
	return reflect.TypeFor[func(A) R]()
}

func (d *methodDecl[A, R]) bindable() bool {
	return d.opts.bindable
}

func (d *methodDecl[A, R]) hookPayloads() (before, after reflect.Type) {
	return reflect.TypeFor[A](), reflect.TypeFor[Call[A, R]]()
}

func (d *methodDecl[A, R]) validate() error {
	if d.fn == nil {
		return fmt.Errorf("%w: method needs an implementation", ErrInvalidOption)
	}
	if d.opts.debounce < 0 || d.opts.throttle < 0 {
		return fmt.Errorf("%w: negative debounce or throttle duration", ErrInvalidOption)
	}
	if d.opts.debounce > 0 && d.opts.throttle > 0 {
		return fmt.Errorf("%w: debounce and throttle are mutually exclusive", ErrInvalidOption)
	}
	if d.opts.memoize && !reflect.TypeFor[A]().Comparable() {
		return fmt.Errorf("%w: memoize needs a comparable argument but %s is not", ErrInvalidOption, reflect.TypeFor[A]())
	}
	return nil
}

func (d *methodDecl[A, R]) adapt(p reflect.Type) ([]binder, bool) {
	if reflect.TypeFor[A]() != p {
		return nil, false
	}
	return []binder{
		func(c *Instance) any {
			return func(a A) { d.fn(c, a) }
		},
	}, true
}

func (d *methodDecl[A, R]) expand(c *Instance, r *resolved) error {
	m := &method[A, R]{}
	m.impl = func(a A) R { return d.fn(c, a) }

	call := m.invoke
	if r.bindable {
		m.before = stream.NewTrigger[A]()
		m.after = stream.NewTrigger[Call[A, R]]()
		c.streams = append(c.streams, m.before, m.after)

		for _, b := range r.before {
			subscribeBinder[A](c, m.before, b)()
		}
		for _, b := range r.after {
			subscribeBinder[Call[A, R]](c, m.after, b)()
		}
		call = m.bound
	}
	switch {
	case d.opts.debounce > 0:
		df := &deferred[A, R]{sched: c.sched, wait: d.opts.debounce, fn: call}
		c.Own(df)
		call = df.debounce
	case d.opts.throttle > 0:
		df := &deferred[A, R]{sched: c.sched, wait: d.opts.throttle, fn: call}
		c.Own(df)
		call = df.throttle
	}
	if d.opts.memoize {
		call = memoize(call)
	}
	m.call = call

	c.methods[d.key.name] = m
	c.funcs[d.key.name] = m.call
	c.configurable(d.key.name, func(v any) error {
		switch f := v.(type) {
		case func(A) R:
			m.impl = f
		case func(*Instance, A) R:
			m.impl = func(a A) R { return f(c, a) }
		default:
			return fmt.Errorf("%w: %w", ErrUnexpectedType, TypeError{
				Want: d.callType().String(),
				Got:  fmt.Sprintf("%T", v),
			})
		}
		return nil
	})
	return nil
}

// method is the live form of a method member. Wrappers installed at
// construction always call through impl so config can replace it.
type method[A, R any] struct {
	impl   func(A) R
	call   func(A) R
	before *stream.Trigger[A]
	after  *stream.Trigger[Call[A, R]]
}

func (m *method[A, R]) invoke(a A) R {
	return m.impl(a)
}

func (m *method[A, R]) bound(a A) R {
	m.before.Publish(a)
	r := m.impl(a)
	m.after.Publish(Call[A, R]{Arg: a, Result: r})
	return r
}

func memoize[A, R any](fn func(A) R) func(A) R {
	var (
		mu    sync.Mutex
		cache = make(map[any]R)
	)
	return func(a A) R {
		mu.Lock()
		r, ok := cache[a]
		mu.Unlock()
		if ok {
			return r
		}

		r = fn(a)
		mu.Lock()
		cache[a] = r
		mu.Unlock()
		return r
	}
}
