// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"maps"
)

// Map is an ordinary map[string]any but implements both
// the [Source] and [Store] interfaces.
type Map map[string]any

// Apply implements the [Source] interface. It recursively walks the underlying
// map to find key value pairs to set on the given store.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, nil)
}

func walkMap(m map[string]any, store Store, path Path) error {
	for k, v := range m {
		p := append(path[:len(path):len(path)], k)
		switch x := v.(type) {
		case map[string]any:
			err := walkMap(x, store, p)
			if err != nil {
				return err
			}
		case Map:
			err := walkMap(x, store, p)
			if err != nil {
				return err
			}
		default:
			err := store.Set(p, x)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// EmptyPathError occurs when a value is set without a key.
type EmptyPathError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyPathError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty path: %v", e.Value)
}

// UnexpectedKeyValueTypeError represents the situation when
// a user tries setting a key to a different type than it
// had previously been set to.
type UnexpectedKeyValueTypeError struct {
	Key          string
	ExpectedType string
}

// Error implements the error interface.
func (e UnexpectedKeyValueTypeError) Error() string {
	return fmt.Sprintf("expected key value to be a %s: %s", e.ExpectedType, e.Key)
}

// Set implements the [Store] interface. Intermediate maps are created
// as needed.
func (m Map) Set(path Path, v any) error {
	if len(path) == 0 {
		return EmptyPathError{Value: v}
	}

	cur := map[string]any(m)
	for i, k := range path[:len(path)-1] {
		old, ok := cur[k]
		if !ok {
			next := make(map[string]any)
			cur[k] = next
			cur = next
			continue
		}

		switch next := old.(type) {
		case map[string]any:
			cur = next
		case Map:
			cur = next
		default:
			return UnexpectedKeyValueTypeError{
				Key:          path[:i+1].String(),
				ExpectedType: "map[string]any",
			}
		}
	}
	cur[path[len(path)-1]] = v
	return nil
}

// Lookup returns the value stored at path.
func (m Map) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(m)
	for _, k := range path {
		sub, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = sub[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of m. Nested maps and []any slices are
// copied, every other value is shared.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	return Map(cloneMap(m))
}

// Merge deep merges src into a copy of m. Nested maps are merged key by
// key, any other value in src replaces the one in m.
func (m Map) Merge(src Map) Map {
	out := m.Clone()
	if out == nil {
		out = make(Map, len(src))
	}
	mergeInto(out, src)
	return out
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		sv, ok := asMap(v)
		if !ok {
			dst[k] = cloneValue(v)
			continue
		}
		dv, ok := asMap(dst[k])
		if !ok {
			dst[k] = cloneMap(sv)
			continue
		}
		dv = maps.Clone(dv)
		mergeInto(dv, sv)
		dst[k] = dv
	}
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Map:
		return x, true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case Map:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
