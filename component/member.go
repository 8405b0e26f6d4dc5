// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// binder produces, for a given instance, a func(P) or a func() where P
// is the payload type the binder was adapted to.
type binder func(*Instance) any

// memberDecl is a declaration of a named member.
type memberDecl interface {
	Decl

	memberName() string

	// adapt returns binders which turn this declaration into listeners
	// of a stream delivering payload p. It reports false if the
	// declaration cannot listen to such a stream.
	adapt(p reflect.Type) ([]binder, bool)

	// expand creates the live member on c.
	expand(c *Instance, r *resolved) error
}

// streamMember is implemented by every stream kind declaration.
type streamMember interface {
	memberDecl
	payload() reflect.Type
}

// callableMember is implemented by declarations whose live member is a
// function value of the reported type.
type callableMember interface {
	memberDecl
	callType() reflect.Type
}

// bindableMember is implemented by method declarations.
type bindableMember interface {
	callableMember
	bindable() bool
	hookPayloads() (before, after reflect.Type)
}

// validatingMember is implemented by declarations which can detect
// invalid options when they are merged.
type validatingMember interface {
	memberDecl
	validate() error
}

// derivingMember is implemented by declarations which also occupy
// names other than their own.
type derivingMember interface {
	memberDecl
	derivedNames() []string
}

// aliasMember is implemented by alias declarations.
type aliasMember interface {
	callableMember
	aliasOf() string
}

// resolved is the effective member for a single name.
type resolved struct {
	name string
	decl memberDecl

	// listeners come from other contributions to a stream member.
	listeners []binder

	// before and after hooks are only set for bindable methods.
	bindable bool
	before   []binder
	after    []binder

	// alias is the final member an alias points to.
	alias string
}

func asListener[P any](v any) (func(P), bool) {
	switch fn := v.(type) {
	case func(P):
		return fn, true
	case func():
		return func(P) { fn() }, true
	default:
		return nil, false
	}
}

// asConfigListener accepts the listener shapes a config value may
// take for a stream delivering P.
func asConfigListener[P any](c *Instance, v any) (func(P), bool) {
	if fn, ok := v.(func(*Instance, P)); ok {
		return func(p P) { fn(c, p) }, true
	}
	return asListener[P](v)
}

// listenerType reports whether t is func(p) or func().
func listenerType(t, p reflect.Type) bool {
	if t.Kind() != reflect.Func || t.Name() != "" || t.NumOut() != 0 || t.IsVariadic() {
		return false
	}
	switch t.NumIn() {
	case 0:
		return true
	case 1:
		return t.In(0) == p
	default:
		return false
	}
}

func hookName(prefix, name string) string {
	r, n := utf8.DecodeRuneInString(name)
	return prefix + string(unicode.ToUpper(r)) + name[n:]
}
