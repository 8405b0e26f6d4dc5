// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package component builds live components out of reusable traits.
//
// A [Definition] merges the members, defaults, requirements and hooks
// declared by itself, by the [Trait]s it composes and by the definition
// it extends. Members are declared through typed keys which double as
// accessors on an [Instance]:
//
//	var (
//		Ticks = component.TriggerOf[int]("ticks")
//		Level = component.PropertyOf[string]("level")
//		Greet = component.MethodOf[string, string]("greet")
//	)
//
//	def := component.MustDefine("greeter",
//		Level.Declare(component.Default("info")),
//		Greet.Impl(func(c *component.Instance, name string) string {
//			return "hello " + name
//		}),
//	)
//
// When traits declare the same stream, the first declaration creates the
// stream and every other declaration listens to it. For every other kind
// of member the definition wins over its traits and earlier traits win
// over later ones.
//
// An [Instance] moves through [Constructing], [Initializing],
// [Initialized], [Destroying] and [Destroyed]. Destroying an instance
// destroys its children and severs every subscription it owns, which
// includes every listener registered with [Listen].
package component
