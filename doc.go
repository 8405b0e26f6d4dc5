// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package strata runs applications built from component trees.
//
// [Run] reads the config sources of an application, unmarshals them into
// a custom config type and hands that to an [AppBuilder]. Builders
// usually create a root [component.Instance] and return it as a [Tree]:
//
//	loop := strata.NewLoop()
//	root, err := component.New(ctx, def, component.WithScheduler(loop))
//	if err != nil {
//		return nil, err
//	}
//	return strata.Tree(root, loop), nil
//
// A tree is confined to the goroutine running it. Anything happening
// elsewhere reaches the tree through [Loop.Post], and debounced or
// throttled methods use the loop as their [component.Scheduler]. The
// tree is destroyed once the context of [Run] is done.
//
// Independent trees can run side by side with [All].
package strata
