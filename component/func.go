// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"fmt"
	"reflect"
)

// FuncKey names a function member of type F. F is usually a func type
// but any type can be stored.
type FuncKey[F any] struct {
	name string
}

// FuncOf returns the key of a function member.
func FuncOf[F any](name string) FuncKey[F] {
	return FuncKey[F]{name: name}
}

// Name returns the member name.
func (k FuncKey[F]) Name() string {
	return k.name
}

// Impl declares the member. bind is called once per instance, during
// construction, to capture the instance the function operates on.
func (k FuncKey[F]) Impl(bind func(*Instance) F) Decl {
	return &funcDecl[F]{key: k, bind: bind}
}

// Alias declares the member as an alias of target. Reading the alias
// yields whatever target holds once config has been applied. target may
// also be one of the built in members "init" and "destroy", which are of
// type func(context.Context) error.
func (k FuncKey[F]) Alias(target string) Decl {
	return &funcDecl[F]{key: k, target: target}
}

// Lookup returns the function member of c.
func (k FuncKey[F]) Lookup(c *Instance) (F, bool) {
	v, ok := c.funcs[k.name]
	if !ok {
		var zero F
		return zero, false
	}
	f, ok := v.(F)
	return f, ok
}

// Of returns the function member of c. It panics if c has no such member.
func (k FuncKey[F]) Of(c *Instance) F {
	f, ok := k.Lookup(c)
	if !ok {
		panic(fmt.Sprintf("component: %s has no function member %s of type %s", c.name, k.name, reflect.TypeFor[F]()))
	}
	return f
}

type funcDecl[F any] struct {
	key    FuncKey[F]
	bind   func(*Instance) F
	target string
}

func (d *funcDecl[F]) declare(c *contribution) {
	c.members = append(c.members, d)
}

func (d *funcDecl[F]) memberName() string {
	return d.key.name
}

func (d *funcDecl[F]) callType() reflect.Type {
	return reflect.TypeFor[F]()
}

func (d *funcDecl[F]) aliasOf() string {
	return d.target
}

func (d *funcDecl[F]) validate() error {
	if d.bind == nil && d.target == "" {
		return fmt.Errorf("%w: function member needs an implementation or an alias target", ErrInvalidOption)
	}
	return nil
}

func (d *funcDecl[F]) adapt(p reflect.Type) ([]binder, bool) {
	if d.bind == nil || !listenerType(d.callType(), p) {
		return nil, false
	}
	return []binder{
		func(c *Instance) any { return d.bind(c) },
	}, true
}

func (d *funcDecl[F]) expand(c *Instance, r *resolved) error {
	if r.alias != "" {
		// filled in once config has been applied
		return nil
	}

	c.funcs[d.key.name] = d.bind(c)
	c.configurable(d.key.name, func(v any) error {
		switch f := v.(type) {
		case F:
			c.funcs[d.key.name] = f
		case func(*Instance) F:
			c.funcs[d.key.name] = f(c)
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
