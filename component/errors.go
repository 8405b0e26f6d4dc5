// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyInitialized = errors.New("component is already initialized")
	ErrInitializing       = errors.New("component is still initializing")
	ErrAlreadyDestroyed   = errors.New("component is already destroyed")
	ErrRecursiveDestroy   = errors.New("recursive destroy call detected")
	ErrSelfAttach         = errors.New("component cannot be attached to itself")
	ErrCyclicAttach       = errors.New("component cannot be attached to one of its descendants")

	ErrMissingField = errors.New("required field is missing")

	ErrDuplicateMember      = errors.New("member is declared more than once")
	ErrReservedName         = errors.New("member name is reserved")
	ErrIncompatibleListener = errors.New("contribution cannot listen to stream")
	ErrIncompatibleHook     = errors.New("contribution cannot be used as a bindable hook")
	ErrUnknownAlias         = errors.New("alias target does not exist")
	ErrAliasType            = errors.New("alias type does not match its target")
	ErrTraitOnly            = errors.New("directive is only allowed in traits")
	ErrNotInTrait           = errors.New("directive is not allowed in traits")
	ErrInvalidOption        = errors.New("invalid member option")

	ErrUnexpectedType = errors.New("config value has an unexpected type")
)

// LifecycleError is returned when a lifecycle operation is attempted
// from a state which does not allow it.
type LifecycleError struct {
	Component string
	Op        string
	Cause     error
}

// Error implements the [builtin.error] interface.
func (e LifecycleError) Error() string {
	return fmt.Sprintf("component %s: %s: %s", e.Component, e.Op, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e LifecycleError) Unwrap() error {
	return e.Cause
}

// ContractError is returned by [New] when a required field is
// missing or does not satisfy its contract.
type ContractError struct {
	Component string
	Field     string
	Cause     error
}

// Error implements the [builtin.error] interface.
func (e ContractError) Error() string {
	return fmt.Sprintf("component %s: field %s: %s", e.Component, e.Field, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ContractError) Unwrap() error {
	return e.Cause
}

// DefinitionError is returned by [Define] when the declarations
// of a definition and its traits cannot be merged.
type DefinitionError struct {
	Definition string
	Member     string
	Cause      error
}

// Error implements the [builtin.error] interface.
func (e DefinitionError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("definition %s: %s", e.Definition, e.Cause)
	}
	return fmt.Sprintf("definition %s: member %s: %s", e.Definition, e.Member, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DefinitionError) Unwrap() error {
	return e.Cause
}

// ConfigError is returned by [New] when a config value cannot be
// applied to the member it names.
type ConfigError struct {
	Component string
	Key       string
	Cause     error
}

// Error implements the [builtin.error] interface.
func (e ConfigError) Error() string {
	return fmt.Sprintf("component %s: config key %s: %s", e.Component, e.Key, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConfigError) Unwrap() error {
	return e.Cause
}

// InitError wraps the failure of an init hook.
type InitError struct {
	Component string
	Cause     error
}

// Error implements the [builtin.error] interface.
func (e InitError) Error() string {
	return fmt.Sprintf("component %s: failed to initialize: %s", e.Component, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InitError) Unwrap() error {
	return e.Cause
}

// TypeError describes a value whose type does not fit where it is used.
type TypeError struct {
	Want string
	Got  string
}

// Error implements the [builtin.error] interface.
func (e TypeError) Error() string {
	return fmt.Sprintf("expected %s but got %s", e.Want, e.Got)
}
