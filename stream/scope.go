// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package stream

// Scope owns a set of subscriptions so they can be severed together.
// The zero value is ready to use.
type Scope struct {
	subs []Unsubscriber
}

// Add records u in the scope.
func (s *Scope) Add(u Unsubscriber) {
	s.subs = append(s.subs, u)
}

// Off severs every subscription recorded in the scope and empties it.
func (s *Scope) Off() {
	subs := s.subs
	s.subs = nil
	for _, u := range subs {
		u.Off()
	}
}

// Len returns the number of subscriptions recorded in the scope.
func (s *Scope) Len() int {
	return len(s.subs)
}

// Listen subscribes fn to src and records the resulting [Handler] in s.
func Listen[T any](s *Scope, src Source[T], fn func(T)) *Handler[T] {
	h := NewHandler(fn)
	s.Add(h)
	src.Subscribe(h)
	return h
}
