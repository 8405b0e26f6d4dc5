// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes used by strata's log records.
package slogfield

import (
	"fmt"
	"log/slog"
	"time"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Component returns the slog.Attr identifying a component instance.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Definition returns the slog.Attr naming the definition an instance was built from.
func Definition(name string) slog.Attr {
	return slog.String("definition", name)
}

// Member returns the slog.Attr naming a component member.
func Member(name string) slog.Attr {
	return slog.String("member", name)
}

// State returns the slog.Attr for a lifecycle state.
func State(s fmt.Stringer) slog.Attr {
	return slog.String("state", s.String())
}

// Transition returns the slog.Attr group describing a lifecycle state change.
func Transition(from, to fmt.Stringer) slog.Attr {
	return slog.Group(
		"transition",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

// Children returns the slog.Attr for the number of children of a component.
func Children(n int) slog.Attr {
	return slog.Int("children", n)
}
