// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package slogfield

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestAttrs(t *testing.T) {
	testCases := []struct {
		name  string
		attr  slog.Attr
		key   string
		value any
	}{
		{name: "Any", attr: Any("k", 1.5), key: "k", value: 1.5},
		{name: "Bool", attr: Bool("k", true), key: "k", value: true},
		{name: "Duration", attr: Duration("k", time.Second), key: "k", value: time.Second},
		{name: "String", attr: String("k", "v"), key: "k", value: "v"},
		{name: "Strings", attr: Strings("k", []string{"a"}), key: "k", value: []string{"a"}},
		{name: "Int", attr: Int("k", 3), key: "k", value: int64(3)},
		{name: "Component", attr: Component("worker"), key: "component", value: "worker"},
		{name: "Definition", attr: Definition("Worker"), key: "definition", value: "Worker"},
		{name: "Member", attr: Member("ping"), key: "member", value: "ping"},
		{name: "State", attr: State(stringer("initialized")), key: "state", value: "initialized"},
		{name: "Children", attr: Children(2), key: "children", value: int64(2)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.key, testCase.attr.Key)
			require.Equal(t, testCase.value, testCase.attr.Value.Any())
		})
	}

	t.Run("Error", func(t *testing.T) {
		err := errors.New("boom")
		attr := Error(err)

		require.Equal(t, "error", attr.Key)
		require.Equal(t, err, attr.Value.Any())
	})

	t.Run("Transition", func(t *testing.T) {
		attr := Transition(stringer("constructing"), stringer("initializing"))

		require.Equal(t, "transition", attr.Key)
		require.Equal(t, slog.KindGroup, attr.Value.Kind())
		group := attr.Value.Group()
		require.Len(t, group, 2)
		require.Equal(t, "constructing", group[0].Value.String())
		require.Equal(t, "initializing", group[1].Value.String())
	})
}
