// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"fmt"
	"reflect"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/stream"
)

// ChangeSuffix is appended to a property name to name its change stream.
const ChangeSuffix = "Change"

// PropertyKey names an observable property holding a T.
type PropertyKey[T any] struct {
	name string
}

// PropertyOf returns the key of a property member.
func PropertyOf[T any](name string) PropertyKey[T] {
	return PropertyKey[T]{name: name}
}

// Name returns the member name.
func (k PropertyKey[T]) Name() string {
	return k.name
}

// PropertyOption configures a property declaration.
type PropertyOption[T any] func(*propertyDecl[T])

// Default sets the value a property starts with when the config of an
// instance does not provide one.
func Default[T any](v T) PropertyOption[T] {
	return func(d *propertyDecl[T]) {
		d.def = &v
	}
}

// ByReference makes the property compare values by identity instead of
// by deep equality.
func ByReference[T any]() PropertyOption[T] {
	return func(d *propertyDecl[T]) {
		d.byRef = true
	}
}

// CoerceWith registers a function applied to every value written to the
// property, including its initial value.
func CoerceWith[T any](fn func(T) T) PropertyOption[T] {
	return func(d *propertyDecl[T]) {
		d.coerce = fn
	}
}

// OnChange adds a default listener to the property's change stream.
func OnChange[T any](fn func(*Instance, stream.Change[T])) PropertyOption[T] {
	return func(d *propertyDecl[T]) {
		d.listeners = append(d.listeners, fn)
	}
}

// Declare declares the property.
func (k PropertyKey[T]) Declare(opts ...PropertyOption[T]) Decl {
	d := &propertyDecl[T]{key: k}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Changes returns the observable backing the property of c. It panics if
// c has no such member.
func (k PropertyKey[T]) Changes(c *Instance) *stream.Observable[T] {
	return mustMember[*stream.Observable[T]](c, k.name)
}

// Get returns the current value of the property of c.
func (k PropertyKey[T]) Get(c *Instance) T {
	return k.Changes(c).Value()
}

// Set writes v to the property of c, notifying listeners if it changed.
func (k PropertyKey[T]) Set(c *Instance, v T) {
	k.Changes(c).Publish(v)
}

type propertyDecl[T any] struct {
	key       PropertyKey[T]
	def       *T
	byRef     bool
	coerce    func(T) T
	listeners []func(*Instance, stream.Change[T])
}

func (d *propertyDecl[T]) declare(c *contribution) {
	c.members = append(c.members, d)
}

func (d *propertyDecl[T]) memberName() string {
	return d.key.name
}

func (d *propertyDecl[T]) derivedNames() []string {
	return []string{d.key.name + ChangeSuffix}
}

func (d *propertyDecl[T]) payload() reflect.Type {
	return reflect.TypeFor[stream.Change[T]]()
}

func (d *propertyDecl[T]) adapt(p reflect.Type) ([]binder, bool) {
	if p != d.payload() {
		return nil, false
	}
	return listenerBinders(d.listeners), true
}

func (d *propertyDecl[T]) expand(c *Instance, r *resolved) error {
	var opts []stream.ObservableOption[T]
	if d.byRef {
		opts = append(opts, stream.TrackByReference[T]())
	}
	if d.coerce != nil {
		opts = append(opts, stream.Coerce(d.coerce))
	}

	initial, ok, err := d.initialValue(c)
	if err != nil {
		return ConfigError{Component: c.name, Key: d.key.name, Cause: err}
	}
	if ok {
		opts = append(opts, stream.WithValue(initial))
	}

	obs := stream.NewObservable(opts...)
	c.addStream(d.key.name, obs)
	c.members[d.key.name+ChangeSuffix] = obs
	c.getters[d.key.name] = func() (any, bool) {
		if !obs.HasValue() {
			return nil, false
		}
		return obs.Value(), true
	}

	for _, b := range listenerBinders(d.listeners) {
		c.queueListener(subscribeBinder[stream.Change[T]](c, obs, b))
	}
	for _, b := range r.listeners {
		c.queueListener(subscribeBinder[stream.Change[T]](c, obs, b))
	}

	// the initial value was taken from the config already
	c.configurable(d.key.name, func(any) error { return nil })
	c.configurable(d.key.name+ChangeSuffix, func(v any) error {
		fn, ok := asConfigListener[stream.Change[T]](c, v)
		if !ok {
			return fmt.Errorf("%w: %w", ErrUnexpectedType, TypeError{
				Want: fmt.Sprintf("change listener func(%s)", d.payload()),
				Got:  fmt.Sprintf("%T", v),
			})
		}
		c.onInitialized(func() {
			obs.Watch(stream.NewHandler(fn))
		})
		return nil
	})
	return nil
}

func (d *propertyDecl[T]) initialValue(c *Instance) (T, bool, error) {
	raw, ok := c.cfg[d.key.name]
	if !ok {
		if d.def == nil {
			var zero T
			return zero, false, nil
		}
		return *d.def, true, nil
	}
	if v, ok := raw.(T); ok {
		return v, true, nil
	}

	var v T
	err := config.Decode(raw, &v)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}
