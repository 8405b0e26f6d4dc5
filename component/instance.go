// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/pkg/slogfield"
	"github.com/z5labs/strata/stream"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/z5labs/strata/component"

// Instance is a live component built from a [Definition].
//
// An Instance is not safe for concurrent use. Streams, lifecycle calls
// and hierarchy changes are expected to happen on a single goroutine.
type Instance struct {
	def    *Definition
	name   string
	log    *slog.Logger
	tracer trace.Tracer
	sched  Scheduler

	cfg    config.Map
	values map[string]any

	state    State
	parent   *Instance
	children []*Instance

	members map[string]any
	funcs   map[string]any
	methods map[string]any
	streams []interface{ OffAll() }
	scope   stream.Scope

	getters       map[string]func() (any, bool)
	setters       map[string]func(any) error
	listeners     []func()
	initListeners []func()
	initialized   *stream.Latch[bool]
	failed        *stream.Latch[error]
}

type options struct {
	name    string
	sources []config.Source
	log     *slog.Logger
	sched   Scheduler
	parent  *Instance
}

// Option configures the construction of an [Instance].
type Option func(*options)

// WithName names the instance in errors, logs and spans. It defaults to
// the name of the definition.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithConfig provides the caller config. Later sources override earlier
// ones. Besides plain values a config may carry functions, which are
// bound to the members they name.
func WithConfig(srcs ...config.Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, srcs...)
	}
}

// WithLogger sets the logger lifecycle events are reported to.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithScheduler sets the scheduler used by debounced and throttled
// methods. It defaults to [RealTime].
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		o.sched = s
	}
}

// WithParent attaches the new instance to p before it is initialized.
func WithParent(p *Instance) Option {
	return func(o *options) {
		o.parent = p
	}
}

// New constructs an instance of def.
//
// Unless the config sets "init" to false, the instance is initialized
// before New returns. If that initialization fails synchronously, New
// returns the instance together with an [InitError] so the caller can
// still destroy it. Any other error means no instance was created.
func New(ctx context.Context, def *Definition, opts ...Option) (*Instance, error) {
	o := &options{
		name:  def.name,
		log:   slog.New(slog.DiscardHandler),
		sched: RealTime,
	}
	for _, opt := range opts {
		opt(o)
	}

	tracer := otel.Tracer(tracerName)
	spanCtx, span := tracer.Start(ctx, "component.New", trace.WithAttributes(
		attribute.String("component.name", o.name),
		attribute.String("component.definition", def.name),
	))
	defer span.End()

	c, err := construct(spanCtx, def, o, tracer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.ErrorContext(spanCtx, "failed to construct component",
			slogfield.Component(o.name),
			slogfield.Definition(def.name),
			slogfield.Error(err),
		)
		return nil, err
	}

	deferred, err := c.deferInit()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if deferred {
		c.log.DebugContext(spanCtx, "deferring initialization", slogfield.Component(c.name))
		return c, nil
	}

	err = c.Init(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c, err
	}
	return c, nil
}

func construct(ctx context.Context, def *Definition, o *options, tracer trace.Tracer) (*Instance, error) {
	c := &Instance{
		def:         def,
		name:        o.name,
		log:         o.log,
		tracer:      tracer,
		sched:       o.sched,
		values:      make(map[string]any),
		members:     make(map[string]any),
		funcs:       make(map[string]any),
		methods:     make(map[string]any),
		getters:     make(map[string]func() (any, bool)),
		setters:     make(map[string]func(any) error),
		initialized: stream.NewLatch[bool](),
		failed:      stream.NewLatch[error](),
	}

	m, err := config.Read(o.sources...)
	if err != nil {
		return nil, ConfigError{Component: c.name, Cause: err}
	}
	c.cfg = def.defaults.Merge(m.Map())

	c.members[initializedMember] = c.initialized
	c.members[failedMember] = c.failed
	c.streams = append(c.streams, c.initialized, c.failed)
	c.funcs[initMember] = c.Init
	c.funcs[destroyMember] = c.Destroy

	for _, r := range def.members {
		err := r.decl.expand(c, r)
		if err != nil {
			return nil, err
		}
	}

	err = c.applyConfig()
	if err != nil {
		return nil, err
	}

	for _, r := range def.members {
		if r.alias != "" {
			c.funcs[r.name] = c.funcs[r.alias]
		}
	}

	err = c.checkContracts()
	if err != nil {
		return nil, err
	}

	listeners := c.listeners
	c.listeners = nil
	for _, subscribe := range listeners {
		subscribe()
	}

	if o.parent != nil {
		err = c.AttachTo(o.parent)
		if err != nil {
			return nil, err
		}
	}

	c.log.DebugContext(ctx, "constructed component",
		slogfield.Component(c.name),
		slogfield.Definition(def.name),
		slogfield.Strings("members", def.Members()),
	)
	return c, nil
}

// applyConfig hands every config key to the member it names. Keys which
// do not name a member become plain values.
func (c *Instance) applyConfig() error {
	keys := slices.Sorted(maps.Keys(c.cfg))

	var errs []error
	for _, k := range keys {
		if k == initMember {
			continue
		}

		v := c.cfg[k]
		set, ok := c.setters[k]
		if !ok {
			c.values[k] = v
			continue
		}
		err := set(v)
		if err != nil {
			errs = append(errs, ConfigError{Component: c.name, Key: k, Cause: err})
		}
	}
	return errors.Join(errs...)
}

func (c *Instance) deferInit() (bool, error) {
	v, ok := c.cfg[initMember]
	if !ok {
		return false, nil
	}

	var enabled bool
	err := config.Decode(v, &enabled)
	if err != nil {
		return false, ConfigError{Component: c.name, Key: initMember, Cause: err}
	}
	return !enabled, nil
}

func (c *Instance) checkContracts() error {
	for _, req := range c.def.requires {
		v, ok := c.field(req.name)
		if !ok {
			return ContractError{Component: c.name, Field: req.name, Cause: ErrMissingField}
		}
		if req.contract == nil {
			continue
		}
		err := req.contract.Check(v)
		if err != nil {
			return ContractError{Component: c.name, Field: req.name, Cause: err}
		}
	}
	return nil
}

// field returns whatever the instance holds under name: a plain value,
// a function, the value of a property or a stream.
func (c *Instance) field(name string) (any, bool) {
	if v, ok := c.values[name]; ok {
		return v, true
	}
	if v, ok := c.funcs[name]; ok {
		return v, true
	}
	if get, ok := c.getters[name]; ok {
		return get()
	}
	v, ok := c.members[name]
	return v, ok
}

func (c *Instance) addStream(name string, s interface{ OffAll() }) {
	c.members[name] = s
	c.streams = append(c.streams, s)
}

func (c *Instance) configurable(key string, set func(any) error) {
	c.setters[key] = set
}

func (c *Instance) queueListener(subscribe func()) {
	c.listeners = append(c.listeners, subscribe)
}

func (c *Instance) onInitialized(fn func()) {
	c.initListeners = append(c.initListeners, fn)
}

func memberOf[S any](c *Instance, name string) (S, bool) {
	s, ok := c.members[name].(S)
	return s, ok
}

func mustMember[S any](c *Instance, name string) S {
	s, ok := memberOf[S](c, name)
	if !ok {
		panic(fmt.Sprintf("component: %s has no member %s of type %T", c.name, name, s))
	}
	return s
}

// Name returns the name of the instance.
func (c *Instance) Name() string {
	return c.name
}

// Definition returns the definition c was built from.
func (c *Instance) Definition() *Definition {
	return c.def
}

// Config returns a copy of the resolved config of c: its defaults
// overridden by the caller config.
func (c *Instance) Config() config.Map {
	return c.cfg.Clone()
}

// Value returns a config value which does not name a member.
func (c *Instance) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Decode decodes the resolved config of c into v using the "config"
// struct tag.
func (c *Instance) Decode(v any) error {
	return config.Decode(map[string]any(c.cfg), v)
}

// ValueOf decodes the config value name of c into a T.
func ValueOf[T any](c *Instance, name string) (T, error) {
	var v T
	raw, ok := c.values[name]
	if !ok {
		return v, ConfigError{Component: c.name, Key: name, Cause: ErrMissingField}
	}
	if t, ok := raw.(T); ok {
		return t, nil
	}
	err := config.Decode(raw, &v)
	if err != nil {
		return v, ConfigError{Component: c.name, Key: name, Cause: err}
	}
	return v, nil
}

// Own ties u to the lifetime of c: it is severed when c is destroyed.
func (c *Instance) Own(u stream.Unsubscriber) {
	c.scope.Add(u)
}

// Listen subscribes fn to src for as long as c lives. Use it whenever c
// listens to a stream it does not own so that a destroyed instance is
// never called back.
func Listen[T any](c *Instance, src stream.Source[T], fn func(T)) *stream.Handler[T] {
	return stream.Listen(&c.scope, src, fn)
}
