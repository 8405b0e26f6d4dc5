// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Contract validates the value of a required field.
type Contract interface {
	Check(v any) error
	String() string
}

type requirement struct {
	name     string
	contract Contract
}

// MismatchError is returned by a [Contract] rejecting a value.
type MismatchError struct {
	Contract string
	Value    any
}

// Error implements the [builtin.error] interface.
func (e MismatchError) Error() string {
	return fmt.Sprintf("value %v (%T) does not satisfy %s", e.Value, e.Value, e.Contract)
}

type contractFunc struct {
	desc  string
	check func(any) error
}

func (c contractFunc) Check(v any) error {
	return c.check(v)
}

func (c contractFunc) String() string {
	return c.desc
}

func mismatch(desc string, ok bool, v any) error {
	if ok {
		return nil
	}
	return MismatchError{Contract: desc, Value: v}
}

// IsA requires the value to be a T.
func IsA[T any]() Contract {
	desc := reflect.TypeFor[T]().String()
	return contractFunc{
		desc: desc,
		check: func(v any) error {
			_, ok := v.(T)
			return mismatch(desc, ok, v)
		},
	}
}

// Predicate requires fn to hold for the value.
func Predicate(desc string, fn func(any) bool) Contract {
	return contractFunc{
		desc: desc,
		check: func(v any) error {
			return mismatch(desc, fn(v), v)
		},
	}
}

// NotEmpty requires the value to be non zero and, for strings, slices
// and maps, to have a non zero length.
func NotEmpty() Contract {
	const desc = "not empty"
	return contractFunc{
		desc: desc,
		check: func(v any) error {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() {
				return mismatch(desc, false, v)
			}
			switch rv.Kind() {
			case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
				return mismatch(desc, rv.Len() > 0, v)
			default:
				return mismatch(desc, !rv.IsZero(), v)
			}
		},
	}
}

// OneOf requires the value to deeply equal one of values.
func OneOf(values ...any) Contract {
	desc := fmt.Sprintf("one of %v", values)
	return contractFunc{
		desc: desc,
		check: func(v any) error {
			ok := slices.ContainsFunc(values, func(x any) bool {
				return reflect.DeepEqual(x, v)
			})
			return mismatch(desc, ok, v)
		},
	}
}

// Each requires the value to be a slice or array whose every element
// satisfies c.
func Each(c Contract) Contract {
	desc := fmt.Sprintf("each %s", c)
	return contractFunc{
		desc: desc,
		check: func(v any) error {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
				return mismatch(desc, false, v)
			}
			for i := range rv.Len() {
				err := c.Check(rv.Index(i).Interface())
				if err != nil {
					return fmt.Errorf("index %d: %w", i, err)
				}
			}
			return nil
		},
	}
}

// Shape requires the value to be a map with string keys carrying every
// key of fields, each satisfying its contract. A nil contract only
// requires the key to be present.
func Shape(fields map[string]Contract) Contract {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	desc := fmt.Sprintf("shape {%s}", strings.Join(keys, ", "))

	return contractFunc{
		desc: desc,
		check: func(v any) error {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
				return mismatch(desc, false, v)
			}
			for _, k := range keys {
				fv := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
				if !fv.IsValid() {
					return fmt.Errorf("key %s: %w", k, ErrMissingField)
				}
				c := fields[k]
				if c == nil {
					continue
				}
				err := c.Check(fv.Interface())
				if err != nil {
					return fmt.Errorf("key %s: %w", k, err)
				}
			}
			return nil
		},
	}
}
