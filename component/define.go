// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/lifecycle"
)

// reserved member names. The first two are the built in functions
// aliases may point to.
const (
	initMember        = "init"
	destroyMember     = "destroy"
	initializedMember = "initialized"
	failedMember      = "failed"
)

var builtinFuncType = reflect.TypeFor[func(context.Context) error]()

// Definition is the immutable, merged description of a component type.
// It is computed once by [Define] and shared by every instance.
type Definition struct {
	name string

	// contribs is the scan order: extended definition, traits, own.
	contribs []*contribution
	// priority orders contributions for plain members: own, traits,
	// then the priority of the extended definition.
	priority []*contribution
	traits   []*Trait

	members  []*resolved
	byName   map[string]*resolved
	defaults config.Map
	requires []requirement
	init     lifecycle.Hook[*Instance]
	destroy  lifecycle.Hook[*Instance]
}

// Define merges decls, the traits they compose and the definition they
// extend into a [Definition].
func Define(name string, decls ...Decl) (*Definition, error) {
	own := newContribution(name, false, decls)
	errs := slices.Clone(own.errs)

	def := &Definition{
		name:   name,
		byName: make(map[string]*resolved),
	}

	base := own.extends
	seen := make(map[*Trait]bool)
	if base != nil {
		for _, t := range base.traits {
			seen[t] = true
		}
	}
	newTraits := flattenTraits(own.traits, seen, nil)
	for _, t := range newTraits {
		errs = append(errs, t.c.errs...)
	}

	var ownTraits []*contribution
	for _, t := range newTraits {
		ownTraits = append(ownTraits, t.c)
	}
	def.priority = append([]*contribution{own}, ownTraits...)
	if base != nil {
		def.contribs = slices.Clone(base.contribs)
		def.traits = slices.Clone(base.traits)
		def.priority = append(def.priority, base.priority...)
	}
	def.contribs = append(def.contribs, ownTraits...)
	def.contribs = append(def.contribs, own)
	def.traits = append(def.traits, newTraits...)

	def.defaults, def.requires = mergeInherited(own, base, ownTraits)

	def.init = own.init
	def.destroy = own.destroy
	if base != nil {
		if !own.hasInit {
			def.init = base.init
		}
		if own.destroy.IsZero() {
			def.destroy = base.destroy
		}
	}

	errs = append(errs, def.merge()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return def, nil
}

// MustDefine is like [Define] but panics if the definition is invalid.
func MustDefine(name string, decls ...Decl) *Definition {
	def, err := Define(name, decls...)
	if err != nil {
		panic(err)
	}
	return def
}

// Name returns the name the definition was declared with.
func (d *Definition) Name() string {
	return d.name
}

// Members returns the names of all merged members in declaration order.
func (d *Definition) Members() []string {
	names := make([]string, len(d.members))
	for i, r := range d.members {
		names[i] = r.name
	}
	return names
}

// Traits returns the names of every composed trait in composition order.
func (d *Definition) Traits() []string {
	names := make([]string, len(d.traits))
	for i, t := range d.traits {
		names[i] = t.Name()
	}
	return names
}

// Defaults returns a copy of the merged default config.
func (d *Definition) Defaults() config.Map {
	return d.defaults.Clone()
}

func flattenTraits(traits []*Trait, seen map[*Trait]bool, out []*Trait) []*Trait {
	for _, t := range traits {
		if t == nil || seen[t] {
			continue
		}
		seen[t] = true
		out = flattenTraits(t.c.traits, seen, out)
		out = append(out, t)
	}
	return out
}

// mergeInherited merges defaults and requirements. The definition's own
// values win over the extended definition, which wins over traits.
// Earlier traits win over later ones.
func mergeInherited(own *contribution, base *Definition, traits []*contribution) (config.Map, []requirement) {
	defaults := make(config.Map)
	var requires []requirement
	index := make(map[string]int)
	addRequires := func(rs []requirement) {
		for _, r := range rs {
			i, ok := index[r.name]
			if ok {
				requires[i] = r
				continue
			}
			index[r.name] = len(requires)
			requires = append(requires, r)
		}
	}

	for _, t := range slices.Backward(traits) {
		defaults = defaults.Merge(t.defaults)
		addRequires(t.requires)
	}
	if base != nil {
		defaults = defaults.Merge(base.defaults)
		addRequires(base.requires)
	}
	defaults = defaults.Merge(own.defaults)
	addRequires(own.requires)
	return defaults, requires
}

type entry struct {
	decl memberDecl
	from *contribution
}

func (d *Definition) fail(member string, err error) error {
	return DefinitionError{Definition: d.name, Member: member, Cause: err}
}

func (d *Definition) merge() []error {
	var errs []error

	var order []string
	pool := make(map[string][]entry)
	for _, c := range d.contribs {
		declared := make(map[string]bool)
		for _, m := range c.members {
			name := m.memberName()
			switch {
			case isReserved(name):
				errs = append(errs, d.fail(name, ErrReservedName))
				continue
			case declared[name]:
				errs = append(errs, d.fail(name, fmt.Errorf("%w in %s", ErrDuplicateMember, c.name)))
				continue
			}
			declared[name] = true

			if v, ok := m.(validatingMember); ok {
				if err := v.validate(); err != nil {
					errs = append(errs, d.fail(name, err))
					continue
				}
			}
			if _, ok := pool[name]; !ok {
				order = append(order, name)
			}
			pool[name] = append(pool[name], entry{decl: m, from: c})
		}
	}

	for _, name := range order {
		r, err := d.resolve(name, pool[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d.members = append(d.members, r)
		d.byName[name] = r
	}

	for _, r := range d.members {
		dm, ok := r.decl.(derivingMember)
		if !ok {
			continue
		}
		for _, name := range dm.derivedNames() {
			if _, taken := d.byName[name]; taken {
				errs = append(errs, d.fail(name, fmt.Errorf("%w as part of %s", ErrDuplicateMember, r.name)))
			}
		}
	}
	for _, r := range d.members {
		errs = append(errs, d.wireHooks(r, pool)...)
	}
	for _, r := range d.members {
		if err := d.resolveAlias(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func isReserved(name string) bool {
	switch name {
	case initMember, destroyMember, initializedMember, failedMember:
		return true
	default:
		return false
	}
}

// resolve picks the effective member for name. The first stream
// declaration wins and every other contribution listens to it.
// Otherwise the contribution with the highest priority wins.
func (d *Definition) resolve(name string, entries []entry) (*resolved, error) {
	i := slices.IndexFunc(entries, func(e entry) bool {
		_, ok := e.decl.(streamMember)
		return ok
	})
	if i >= 0 {
		canonical := entries[i].decl.(streamMember)
		r := &resolved{name: name, decl: canonical}

		var errs []error
		for j, e := range entries {
			if j == i {
				continue
			}
			bs, ok := e.decl.adapt(canonical.payload())
			if !ok {
				errs = append(errs, d.fail(name, fmt.Errorf("%w: %w", ErrIncompatibleListener, TypeError{
					Want: fmt.Sprintf("listener of %s", canonical.payload()),
					Got:  fmt.Sprintf("%T from %s", e.decl, e.from.name),
				})))
				continue
			}
			r.listeners = append(r.listeners, bs...)
		}
		return r, errors.Join(errs...)
	}

	best := entries[0]
	bestRank := slices.Index(d.priority, best.from)
	for _, e := range entries[1:] {
		rank := slices.Index(d.priority, e.from)
		if rank < bestRank {
			best, bestRank = e, rank
		}
	}
	return &resolved{name: name, decl: best.decl}, nil
}

// wireHooks collects the before and after hooks of a bindable method.
func (d *Definition) wireHooks(r *resolved, pool map[string][]entry) []error {
	m, ok := r.decl.(bindableMember)
	if !ok {
		return nil
	}
	flagged := slices.ContainsFunc(pool[r.name], func(e entry) bool {
		bm, ok := e.decl.(bindableMember)
		return ok && bm.bindable() && bm.callType() == m.callType()
	})
	if !flagged {
		return nil
	}
	r.bindable = true

	beforeType, afterType := m.hookPayloads()
	var errs []error
	collect := func(hook string, p reflect.Type) []binder {
		var bs []binder
		for _, e := range pool[hook] {
			adapted, ok := e.decl.adapt(p)
			if !ok {
				errs = append(errs, d.fail(hook, fmt.Errorf("%w: %w", ErrIncompatibleHook, TypeError{
					Want: fmt.Sprintf("func(%s)", p),
					Got:  fmt.Sprintf("%T from %s", e.decl, e.from.name),
				})))
				continue
			}
			bs = append(bs, adapted...)
		}
		return bs
	}
	r.before = collect(hookName("before", r.name), beforeType)
	r.after = collect(hookName("after", r.name), afterType)
	return errs
}

// resolveAlias follows alias chains to their final target and checks
// that its type matches the alias.
func (d *Definition) resolveAlias(r *resolved) error {
	a, ok := r.decl.(aliasMember)
	if !ok || a.aliasOf() == "" {
		return nil
	}

	visited := map[string]bool{r.name: true}
	target := a.aliasOf()
	for {
		if target == initMember || target == destroyMember {
			return d.checkAlias(r, a, target, builtinFuncType)
		}
		if visited[target] {
			return d.fail(r.name, fmt.Errorf("%w: alias cycle through %s", ErrUnknownAlias, target))
		}
		visited[target] = true

		tr, ok := d.byName[target]
		if !ok {
			return d.fail(r.name, fmt.Errorf("%w: %s", ErrUnknownAlias, target))
		}
		if next, ok := tr.decl.(aliasMember); ok && next.aliasOf() != "" {
			target = next.aliasOf()
			continue
		}

		c, ok := tr.decl.(callableMember)
		if !ok {
			return d.fail(r.name, fmt.Errorf("%w: %s is not a function", ErrAliasType, target))
		}
		return d.checkAlias(r, a, target, c.callType())
	}
}

func (d *Definition) checkAlias(r *resolved, a aliasMember, target string, t reflect.Type) error {
	if a.callType() != t {
		return d.fail(r.name, fmt.Errorf("%w: %w", ErrAliasType, TypeError{
			Want: a.callType().String(),
			Got:  fmt.Sprintf("%s of %s", t, target),
		}))
	}
	r.alias = target
	return nil
}
