// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"context"
	"errors"
	"slices"

	"github.com/z5labs/strata/lifecycle"
	"github.com/z5labs/strata/pkg/slogfield"
	"github.com/z5labs/strata/stream"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State returns the lifecycle state of c.
func (c *Instance) State() State {
	return c.state
}

// Initialized opens once c finished initializing.
func (c *Instance) Initialized() *stream.Latch[bool] {
	return c.initialized
}

// Failed opens with the cause if initializing c failed.
func (c *Instance) Failed() *stream.Latch[error] {
	return c.failed
}

func (c *Instance) lifecycleErr(op string, err error) error {
	return LifecycleError{Component: c.name, Op: op, Cause: err}
}

func (c *Instance) transition(ctx context.Context, to State) {
	from := c.state
	c.state = to
	c.log.DebugContext(ctx, "component changed state",
		slogfield.Component(c.name),
		slogfield.Transition(from, to),
	)
}

func (c *Instance) spanAttrs() trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("component.name", c.name),
		attribute.String("component.definition", c.def.name),
	)
}

// Init runs the init hooks of c: the before hooks of its traits, its own
// init hook and then the after hooks of its traits. A hook failing stops
// the sequence.
//
// If a hook fails before Init returns, the error is returned as an
// [InitError]. Initialization which completes later is reported through
// [Instance.Initialized] and [Instance.Failed]. Either way a failure
// opens Failed and leaves c in [Initializing] until it is destroyed.
func (c *Instance) Init(ctx context.Context) error {
	switch c.state {
	case Initializing:
		return c.lifecycleErr("init", ErrInitializing)
	case Initialized:
		return c.lifecycleErr("init", ErrAlreadyInitialized)
	case Destroying, Destroyed:
		return c.lifecycleErr("init", ErrAlreadyDestroyed)
	}

	spanCtx, span := c.tracer.Start(ctx, "component.Init", c.spanAttrs())
	c.transition(spanCtx, Initializing)

	hooks := make([]lifecycle.Hook[*Instance], 0, 2*len(c.def.traits)+1)
	for _, t := range c.def.traits {
		hooks = append(hooks, c.whileInitializing(t.c.beforeInit))
	}
	hooks = append(hooks, c.whileInitializing(c.def.init))
	for _, t := range c.def.traits {
		hooks = append(hooks, c.whileInitializing(t.c.afterInit))
	}

	var (
		returned bool
		syncErr  error
	)
	lifecycle.Sequence(hooks...).Run(spanCtx, c, func(err error) {
		defer span.End()

		if c.state != Initializing {
			c.log.DebugContext(spanCtx, "dropping initialization result of destroyed component",
				slogfield.Component(c.name),
				slogfield.State(c.state),
			)
			return
		}
		if err != nil {
			err = InitError{Component: c.name, Cause: err}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.ErrorContext(spanCtx, "failed to initialize component",
				slogfield.Component(c.name),
				slogfield.Error(err),
			)
			if !returned {
				syncErr = err
			}
			c.failed.Publish(err)
			return
		}

		c.transition(spanCtx, Initialized)
		c.initialized.Publish(true)

		listeners := c.initListeners
		c.initListeners = nil
		for _, fn := range listeners {
			fn()
		}
	})
	returned = true
	return syncErr
}

// whileInitializing stops the init sequence before h once c was
// destroyed by an earlier hook which suspended.
func (c *Instance) whileInitializing(h lifecycle.Hook[*Instance]) lifecycle.Hook[*Instance] {
	if h.IsZero() {
		return h
	}
	return lifecycle.Async(func(ctx context.Context, c *Instance, done lifecycle.Done) {
		if c.state != Initializing {
			done(c.lifecycleErr("init", ErrAlreadyDestroyed))
			return
		}
		h.Run(ctx, c, done)
	})
}

// Destroy tears c down. It severs every stream of c and everything c
// listens to, destroys the children of c, runs its own destroy hook and
// then the destroy hooks of its traits, and finally detaches c from its
// parent.
//
// Errors of children and hooks are joined; they never stop the teardown.
func (c *Instance) Destroy(ctx context.Context) error {
	switch c.state {
	case Destroying:
		return c.lifecycleErr("destroy", ErrRecursiveDestroy)
	case Destroyed:
		return c.lifecycleErr("destroy", ErrAlreadyDestroyed)
	}

	spanCtx, span := c.tracer.Start(ctx, "component.Destroy", c.spanAttrs())
	defer span.End()

	c.transition(spanCtx, Destroying)

	for _, s := range c.streams {
		s.OffAll()
	}
	c.scope.Off()
	c.initListeners = nil

	var errs []error
	if len(c.children) > 0 {
		c.log.DebugContext(spanCtx, "destroying children",
			slogfield.Component(c.name),
			slogfield.Children(len(c.children)),
		)
		errs = append(errs, c.DestroyAll(spanCtx))
	}

	hooks := make([]lifecycle.Hook[*Instance], 0, len(c.def.traits)+1)
	hooks = append(hooks, c.def.destroy)
	for _, t := range c.def.traits {
		hooks = append(hooks, t.c.destroy)
	}
	_, err := lifecycle.RunSync(spanCtx, lifecycle.Compose(hooks...), c)
	errs = append(errs, err)

	c.Detach()
	c.transition(spanCtx, Destroyed)

	err = errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.ErrorContext(spanCtx, "failed to destroy component cleanly",
			slogfield.Component(c.name),
			slogfield.Error(err),
		)
	}
	return err
}

// DestroyAll destroys every child of c and detaches any child which
// could not be destroyed.
func (c *Instance) DestroyAll(ctx context.Context) error {
	var errs []error
	for _, child := range slices.Clone(c.children) {
		if child.state == Destroyed {
			continue
		}
		errs = append(errs, child.Destroy(ctx))
	}
	c.DetachAll()
	return errors.Join(errs...)
}
