// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

// State is the lifecycle state of an [Instance]. States only ever move
// forward, in the order they are declared.
type State int

const (
	Constructing State = iota
	Initializing
	Initialized
	Destroying
	Destroyed
)

// String implements the [fmt.Stringer] interface.
func (s State) String() string {
	switch s {
	case Constructing:
		return "constructing"
	case Initializing:
		return "initializing"
	case Initialized:
		return "initialized"
	case Destroying:
		return "destroying"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
