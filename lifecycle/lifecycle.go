// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lifecycle provides hooks which run at specific points of a component's life.
//
// A [Hook] is either synchronous ([Sync]) or continuation style ([Async]). The style is
// part of the hook's declaration, so hooks of both styles can be freely mixed within a
// single [Sequence] or [Compose].
package lifecycle

import (
	"context"
	"errors"
	"sync"
)

// Done reports the completion of a hook. A nil error means success.
type Done func(error)

// Hook represents functionality that needs to be performed at a specific
// "time" relative to a component's lifecycle. The zero value is a hook
// which does nothing.
type Hook[T any] struct {
	sync  func(context.Context, T) error
	async func(context.Context, T, Done)
}

// Sync returns a [Hook] which is complete as soon as f returns.
func Sync[T any](f func(context.Context, T) error) Hook[T] {
	return Hook[T]{sync: f}
}

// Async returns a [Hook] which is complete once f calls the [Done] it was given.
// Calling [Done] more than once has no effect after the first call.
func Async[T any](f func(context.Context, T, Done)) Hook[T] {
	return Hook[T]{async: f}
}

// IsZero reports whether h does nothing.
func (h Hook[T]) IsZero() bool {
	return h.sync == nil && h.async == nil
}

// Run executes h and reports its completion to done.
func (h Hook[T]) Run(ctx context.Context, v T, done Done) {
	done = once(done)
	switch {
	case h.sync != nil:
		done(h.sync(ctx, v))
	case h.async != nil:
		h.async(ctx, v, done)
	default:
		done(nil)
	}
}

// RunSync executes h and returns its result if it completed before Run returned.
// The completed return value is false if h suspended.
func RunSync[T any](ctx context.Context, h Hook[T], v T) (completed bool, err error) {
	h.Run(ctx, v, func(e error) {
		completed = true
		err = e
	})
	return
}

// Sequence returns a [Hook] which runs the given hooks one after the other.
// Each hook starts only after the previous one completed. The first error
// stops the sequence and is reported as the sequence's result.
func Sequence[T any](hooks ...Hook[T]) Hook[T] {
	hooks = nonZero(hooks)
	return Async(func(ctx context.Context, v T, done Done) {
		chain[T]{hooks: hooks, failFast: true}.run(ctx, v, done)
	})
}

// Compose returns a [Hook] which runs every given hook in order regardless of
// whether a previous hook failed. All errors are joined together.
func Compose[T any](hooks ...Hook[T]) Hook[T] {
	hooks = nonZero(hooks)
	return Async(func(ctx context.Context, v T, done Done) {
		chain[T]{hooks: hooks}.run(ctx, v, done)
	})
}

type chain[T any] struct {
	hooks    []Hook[T]
	failFast bool
	errs     []error
}

// run steps through the hooks iteratively while they complete synchronously
// and resumes from the continuation once a hook suspends.
func (c chain[T]) run(ctx context.Context, v T, done Done) {
	for len(c.hooks) > 0 {
		cur := c

		var (
			mu        sync.Mutex
			returned  bool
			completed bool
			result    error
		)
		cur.hooks[0].Run(ctx, v, func(err error) {
			mu.Lock()
			if !returned {
				completed = true
				result = err
				mu.Unlock()
				return
			}
			mu.Unlock()

			next, stop := cur.advance(err)
			if stop {
				done(next.join())
				return
			}
			next.run(ctx, v, done)
		})

		mu.Lock()
		returned = true
		suspended := !completed
		mu.Unlock()
		if suspended {
			return
		}

		var stop bool
		c, stop = cur.advance(result)
		if stop {
			done(c.join())
			return
		}
	}
	done(c.join())
}

func (c chain[T]) advance(err error) (chain[T], bool) {
	next := chain[T]{
		hooks:    c.hooks[1:],
		failFast: c.failFast,
		errs:     c.errs,
	}
	if err != nil {
		next.errs = append(next.errs, err)
		if c.failFast {
			return next, true
		}
	}
	return next, false
}

func (c chain[T]) join() error {
	if len(c.errs) == 0 {
		return nil
	}
	if len(c.errs) == 1 {
		return c.errs[0]
	}
	return errors.Join(c.errs...)
}

func nonZero[T any](hooks []Hook[T]) []Hook[T] {
	out := make([]Hook[T], 0, len(hooks))
	for _, h := range hooks {
		if h.IsZero() {
			continue
		}
		out = append(out, h)
	}
	return out
}

func once(done Done) Done {
	var o sync.Once
	return func(err error) {
		o.Do(func() {
			done(err)
		})
	}
}
