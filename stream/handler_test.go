// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHandler_Off(t *testing.T) {
	t.Run("will unsubscribe from every stream at once", func(t *testing.T) {
		a := NewTrigger[int]()
		b := NewFlushOnce[int]()
		c := NewLatch[int]()

		calls := 0
		h := NewHandler(func(int) { calls++ })
		a.Subscribe(h)
		b.Subscribe(h)
		c.Subscribe(h)
		require.Equal(t, 3, h.Subscriptions())

		h.Off()

		a.Publish(1)
		b.Publish(1)
		c.Publish(1)
		require.Equal(t, 0, calls)
		require.Equal(t, 0, h.Subscriptions())
		require.Equal(t, 0, a.Len())
		require.Equal(t, 0, b.Len())
		require.Equal(t, 0, c.Len())
	})

	t.Run("will be idempotent", func(t *testing.T) {
		h := NewHandler(func(int) {})

		require.NotPanics(t, func() {
			h.Off()
			h.Off()
		})
	})
}

func TestHandler_reverseIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		triggers := make([]*Trigger[int], rapid.IntRange(1, 5).Draw(t, "triggers"))
		for i := range triggers {
			triggers[i] = NewTrigger[int]()
		}
		handlers := make([]*Handler[int], rapid.IntRange(1, 5).Draw(t, "handlers"))
		for i := range handlers {
			handlers[i] = NewHandler(func(int) {})
		}

		ops := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "ops")
		for i, op := range ops {
			h := handlers[i%len(handlers)]
			trig := triggers[(i/len(handlers))%len(triggers)]
			switch op {
			case 0, 1:
				trig.Subscribe(h)
			case 2:
				trig.Off(h)
			case 3:
				h.Off()
			}
		}

		for _, h := range handlers {
			n := 0
			for _, trig := range triggers {
				if trig.Has(h) {
					n++
				}
			}
			if n != h.Subscriptions() {
				t.Fatalf("handler reports %d subscriptions but is registered on %d streams", h.Subscriptions(), n)
			}
		}
	})
}

func TestScope(t *testing.T) {
	t.Run("will sever every recorded subscription", func(t *testing.T) {
		var s Scope
		trig := NewTrigger[int]()
		obs := NewObservable[string]()

		calls := 0
		Listen(&s, trig, func(int) { calls++ })
		Listen(&s, obs, func(Change[string]) { calls++ })
		require.Equal(t, 2, s.Len())

		s.Off()
		trig.Publish(1)
		obs.Publish("x")

		require.Equal(t, 0, calls)
		require.Equal(t, 0, s.Len())
	})
}
