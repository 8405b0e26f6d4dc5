// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestContract(t *testing.T) {
	testCases := []struct {
		Name     string
		Contract Contract
		Accept   []any
		Reject   []any
	}{
		{
			Name:     "IsA",
			Contract: IsA[int](),
			Accept:   []any{0, 42},
			Reject:   []any{nil, "42", int64(42)},
		},
		{
			Name:     "Predicate",
			Contract: Predicate("positive", func(v any) bool { n, ok := v.(int); return ok && n > 0 }),
			Accept:   []any{1},
			Reject:   []any{0, -1, "1"},
		},
		{
			Name:     "NotEmpty",
			Contract: NotEmpty(),
			Accept:   []any{"a", []int{1}, map[string]int{"a": 1}, 1, true},
			Reject:   []any{nil, "", []int{}, map[string]int{}, 0, false},
		},
		{
			Name:     "OneOf",
			Contract: OneOf("a", []int{1}),
			Accept:   []any{"a", []int{1}},
			Reject:   []any{"b", []int{2}, nil},
		},
		{
			Name:     "Each",
			Contract: Each(IsA[string]()),
			Accept:   []any{[]string{}, []any{"a", "b"}, [2]string{"a", "b"}},
			Reject:   []any{"a", []any{"a", 1}, nil},
		},
		{
			Name: "Shape",
			Contract: Shape(map[string]Contract{
				"host": IsA[string](),
				"port": nil,
			}),
			Accept: []any{
				map[string]any{"host": "localhost", "port": 80},
				map[string]string{"host": "localhost", "port": "80"},
			},
			Reject: []any{
				map[string]any{"host": "localhost"},
				map[string]any{"host": 1, "port": 80},
				map[int]any{1: "a"},
				nil,
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			for _, v := range testCase.Accept {
				require.NoError(t, testCase.Contract.Check(v), "%#v", v)
			}
			for _, v := range testCase.Reject {
				require.Error(t, testCase.Contract.Check(v), "%#v", v)
			}
		})
	}
}

func TestContract_Describe(t *testing.T) {
	require.Equal(t, "each int", Each(IsA[int]()).String())
	require.Equal(t, "shape {a, b}", Shape(map[string]Contract{"b": nil, "a": nil}).String())
}

func TestEach_AgreesWithElements(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		xs := rapid.SliceOf(rapid.IntRange(-10, 10)).Draw(t, "xs")
		positive := Predicate("positive", func(v any) bool { return v.(int) > 0 })

		want := true
		for _, x := range xs {
			want = want && x > 0
		}
		got := Each(positive).Check(xs) == nil
		if got != want {
			t.Fatalf("Each(positive)(%v) = %v, want %v", xs, got, want)
		}
	})
}
