// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"context"
	"fmt"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/lifecycle"
)

// Decl is a single entry of a [Trait] or [Definition]. It is either a
// member declaration, created through one of the member keys, or a
// directive such as [Defaults] or [Init].
type Decl interface {
	declare(*contribution)
}

type declFunc func(*contribution)

func (f declFunc) declare(c *contribution) {
	f(c)
}

// contribution is everything a single trait or definition declares itself.
type contribution struct {
	name  string
	trait bool

	members  []memberDecl
	defaults config.Map
	requires []requirement
	traits   []*Trait
	extends  *Definition

	init       lifecycle.Hook[*Instance]
	hasInit    bool
	destroy    lifecycle.Hook[*Instance]
	beforeInit lifecycle.Hook[*Instance]
	afterInit  lifecycle.Hook[*Instance]

	errs []error
}

func newContribution(name string, trait bool, decls []Decl) *contribution {
	c := &contribution{
		name:  name,
		trait: trait,
	}
	for _, d := range decls {
		if d == nil {
			continue
		}
		d.declare(c)
	}
	return c
}

func (c *contribution) fail(member string, err error) {
	c.errs = append(c.errs, DefinitionError{
		Definition: c.name,
		Member:     member,
		Cause:      err,
	})
}

// Trait is a reusable, stateless bundle of declarations which any
// number of definitions can compose with [Traits].
type Trait struct {
	c *contribution
}

// NewTrait bundles decls into a [Trait]. Any problem with the
// declarations is reported by the [Define] call composing the trait.
func NewTrait(name string, decls ...Decl) *Trait {
	return &Trait{c: newContribution(name, true, decls)}
}

// Name returns the name the trait was declared with.
func (t *Trait) Name() string {
	return t.c.name
}

// Defaults declares default config values. Defaults of a definition are
// deep merged over those it extends and over those of its traits.
func Defaults(m config.Map) Decl {
	return declFunc(func(c *contribution) {
		if c.defaults == nil {
			c.defaults = make(config.Map)
		}
		c.defaults = c.defaults.Merge(m)
	})
}

// Requires declares that every instance must carry a field called name
// which satisfies contract. A nil contract only requires presence.
func Requires(name string, contract Contract) Decl {
	return declFunc(func(c *contribution) {
		c.requires = append(c.requires, requirement{name: name, contract: contract})
	})
}

// Traits composes the given traits, in order.
func Traits(traits ...*Trait) Decl {
	return declFunc(func(c *contribution) {
		c.traits = append(c.traits, traits...)
	})
}

// Extends makes the definition inherit everything declared by base.
func Extends(base *Definition) Decl {
	return declFunc(func(c *contribution) {
		if c.trait {
			c.fail("", fmt.Errorf("extends: %w", ErrNotInTrait))
			return
		}
		c.extends = base
	})
}

// Init declares the definition's own init hook.
func Init(h lifecycle.Hook[*Instance]) Decl {
	return declFunc(func(c *contribution) {
		if c.trait {
			c.fail("init", ErrNotInTrait)
			return
		}
		c.init = h
		c.hasInit = true
	})
}

// OnDestroy declares a destroy hook. The hook of a trait runs after the
// hook of the definition composing it.
func OnDestroy(fn func(context.Context, *Instance) error) Decl {
	return declFunc(func(c *contribution) {
		c.destroy = lifecycle.Sync(fn)
	})
}

// BeforeInit declares a trait hook which runs before the init hook of
// the definition composing the trait.
func BeforeInit(h lifecycle.Hook[*Instance]) Decl {
	return declFunc(func(c *contribution) {
		if !c.trait {
			c.fail("beforeInit", ErrTraitOnly)
			return
		}
		c.beforeInit = h
	})
}

// AfterInit declares a trait hook which runs after the init hook of
// the definition composing the trait.
func AfterInit(h lifecycle.Hook[*Instance]) Decl {
	return declFunc(func(c *contribution) {
		if !c.trait {
			c.fail("afterInit", ErrTraitOnly)
			return
		}
		c.afterInit = h
	})
}
