// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"sync"
	"time"

	"github.com/z5labs/strata/component"
)

// Loop confines a component tree to the goroutine running it. Anything
// which needs to touch the tree from elsewhere posts a func to the loop.
//
// Loop implements [component.Scheduler] so debounced and throttled
// methods of the tree also run on the loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
}

// NewLoop returns a [Loop] ready to be run by [Tree].
func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
	}
}

// Post queues f to run on the loop. It reports false if the loop has
// already stopped, in which case f never runs.
func (l *Loop) Post(f func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.queue = append(l.queue, f)
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// AfterFunc implements the [component.Scheduler] interface.
func (l *Loop) AfterFunc(d time.Duration, f func()) component.Timer {
	return time.AfterFunc(d, func() {
		l.Post(f)
	})
}

func (l *Loop) drain() {
	l.mu.Lock()
	calls := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, f := range calls {
		f()
	}
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.queue = nil
}

// Tree returns an [App] which serves posted calls for root on l until
// its context is done and then destroys root.
func Tree(root *component.Instance, l *Loop) App {
	return AppFunc(func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				l.drain()
				l.stop()
				return root.Destroy(context.WithoutCancel(ctx))
			case <-l.wake:
				l.drain()
			}
		}
	})
}
