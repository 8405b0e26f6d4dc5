// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

// Once subscribes fn to src so that it is invoked at most once.
func Once[T any](src Source[T], fn func(T)) *Handler[T] {
	var h *Handler[T]
	h = NewHandler(func(v T) {
		h.Off()
		fn(v)
	})
	src.Subscribe(h)
	return h
}

// AllTriggered calls then exactly once, after every one of srcs has
// delivered at least one value. With no srcs then is called immediately.
// The returned [Scope] can be used to abandon the wait.
func AllTriggered(then func(), srcs ...Notifier) *Scope {
	s := &Scope{}
	if len(srcs) == 0 {
		then()
		return s
	}

	seen := make([]bool, len(srcs))
	remaining := len(srcs)
	for i, src := range srcs {
		s.Add(src.Notify(func() {
			if seen[i] || remaining == 0 {
				return
			}
			seen[i] = true
			remaining--
			if remaining == 0 {
				s.Off()
				then()
			}
		}))
	}
	return s
}

// Gather calls fn with the current values of every observable whenever
// any of them changes. Observables without a value contribute their
// zero value.
func Gather[T any](fn func([]T), obs ...*Observable[T]) *Scope {
	s := &Scope{}
	collect := func(Change[T]) {
		vs := make([]T, len(obs))
		for i, o := range obs {
			vs[i] = o.Value()
		}
		fn(vs)
	}
	for _, o := range obs {
		Listen(s, o, collect)
	}
	return s
}
