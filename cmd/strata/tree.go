// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/component"
	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/lifecycle"
	"github.com/z5labs/strata/pkg/health"
	"github.com/z5labs/strata/pkg/slogfield"
	"github.com/z5labs/strata/stream"
)

var (
	Tick   = component.TriggerOf[time.Time]("tick")
	Count  = component.PropertyOf[int]("count")
	Total  = component.PropertyOf[int]("total")
	Report = component.MethodOf[string, int]("report")
)

// ticker publishes to a trigger every interval until it is severed.
type ticker struct {
	sched   component.Scheduler
	every   time.Duration
	fire    func(time.Time)
	timer   component.Timer
	stopped bool
}

func (t *ticker) start() {
	t.timer = t.sched.AfterFunc(t.every, t.tick)
}

func (t *ticker) tick() {
	if t.stopped {
		return
	}
	t.fire(time.Now())
	t.start()
}

func (t *ticker) Off() {
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

type definitions struct {
	supervisor *component.Definition
	worker     *component.Definition
}

func define(loop *strata.Loop, log *slog.Logger) definitions {
	logging := component.NewTrait("logging",
		component.AfterInit(lifecycle.Sync(func(ctx context.Context, c *component.Instance) error {
			log.InfoContext(ctx, "component started",
				slogfield.Component(c.Name()),
				slogfield.Definition(c.Definition().Name()),
			)
			return nil
		})),
		component.OnDestroy(func(ctx context.Context, c *component.Instance) error {
			log.InfoContext(ctx, "component stopped", slogfield.Component(c.Name()))
			return nil
		}),
	)

	counting := component.NewTrait("counting",
		Count.Declare(component.Default(0)),
		Tick.Declare(func(c *component.Instance, _ time.Time) {
			Count.Set(c, Count.Get(c)+1)
		}),
	)

	ticking := component.NewTrait("ticking",
		component.Requires("interval", component.NotEmpty()),
		component.AfterInit(lifecycle.Sync(func(ctx context.Context, c *component.Instance) error {
			every, err := component.ValueOf[time.Duration](c, "interval")
			if err != nil {
				return err
			}
			t := &ticker{
				sched: loop,
				every: every,
				fire:  Tick.Of(c).Publish,
			}
			c.Own(t)
			t.start()
			return nil
		})),
	)

	worker := component.MustDefine("worker",
		component.Traits(logging, counting, ticking),
		component.Defaults(config.Map{"interval": "1s"}),
	)

	supervisor := component.MustDefine("supervisor",
		component.Traits(logging),
		Total.Declare(component.Default(0)),
		Report.Impl(func(c *component.Instance, reason string) int {
			total := Total.Get(c)
			log.Info("supervisor report",
				slogfield.Component(c.Name()),
				slogfield.String("reason", reason),
				slogfield.Int("total", total),
				slogfield.Children(len(c.Children())),
				slogfield.Bool("healthy", health.Subtree(c).Healthy(context.Background())),
			)
			return total
		}, component.Throttle(time.Second)),
	)

	return definitions{supervisor: supervisor, worker: worker}
}

// buildTree creates the supervisor and its workers. Every component uses
// loop as its scheduler so the whole tree lives on the loop goroutine.
func buildTree(ctx context.Context, cfg Config, loop *strata.Loop, log *slog.Logger) (*component.Instance, error) {
	defs := define(loop, log)

	root, err := component.New(ctx, defs.supervisor,
		component.WithName(cfg.Name),
		component.WithLogger(log),
		component.WithScheduler(loop),
	)
	if err != nil {
		return nil, err
	}

	for i := range cfg.Workers {
		w, err := component.New(ctx, defs.worker,
			component.WithName(fmt.Sprintf("%s-worker-%d", cfg.Name, i)),
			component.WithLogger(log),
			component.WithScheduler(loop),
			component.WithParent(root),
			component.WithConfig(config.Map{"interval": cfg.Interval}),
		)
		if err != nil {
			return nil, errors.Join(err, root.Destroy(ctx))
		}

		component.Listen(root, Count.Changes(w), func(ch stream.Change[int]) {
			if !ch.HasPrev {
				return
			}
			Total.Set(root, Total.Get(root)+ch.Value-ch.Prev)
			Report.Call(root, w.Name())
		})
	}
	return root, nil
}
