// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a OpenTelemetry aware slog.Handler implementation.
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/strata/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Handler].
type Option func(*Handler)

// SpanEvents mirrors every record at or above lvl onto the active span as
// a span event, so lifecycle logs show up in traces.
func SpanEvents(lvl slog.Leveler) Option {
	return func(h *Handler) {
		h.events = lvl
	}
}

// Handler is an slog.Handler which helps standardize and correlate your
// logs by automatically adding the Trace ID and Span ID to your logs.
type Handler struct {
	slog   slog.Handler
	events slog.Leveler
	attrs  []attribute.KeyValue
	group  string
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...Option) *Handler {
	oh := &Handler{slog: h}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// New provides a simple wrapper for slog.New(NewHandler(h, opts...)).
func New(h slog.Handler, opts ...Option) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if h.events != nil && record.Level >= h.events.Level() && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(h.eventAttrs(record)...))
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.with(h.slog.WithAttrs(attrs))
	for _, a := range attrs {
		next.attrs = appendAttr(next.attrs, h.group, a)
	}
	return next
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	next := h.with(h.slog.WithGroup(name))
	next.group = prefixed(h.group, name)
	return next
}

func (h *Handler) with(sh slog.Handler) *Handler {
	return &Handler{
		slog:   sh,
		events: h.events,
		attrs:  append([]attribute.KeyValue(nil), h.attrs...),
		group:  h.group,
	}
}

func (h *Handler) eventAttrs(record slog.Record) []attribute.KeyValue {
	kvs := append([]attribute.KeyValue{
		attribute.String("level", record.Level.String()),
	}, h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		kvs = appendAttr(kvs, h.group, a)
		return true
	})
	return kvs
}

func appendAttr(kvs []attribute.KeyValue, group string, a slog.Attr) []attribute.KeyValue {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return kvs
	}

	key := prefixed(group, a.Key)
	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			kvs = appendAttr(kvs, key, ga)
		}
		return kvs
	case slog.KindBool:
		return append(kvs, attribute.Bool(key, v.Bool()))
	case slog.KindInt64:
		return append(kvs, attribute.Int64(key, v.Int64()))
	case slog.KindFloat64:
		return append(kvs, attribute.Float64(key, v.Float64()))
	default:
		return append(kvs, attribute.String(key, v.String()))
	}
}

func prefixed(group, key string) string {
	if group == "" {
		return key
	}
	if key == "" {
		return group
	}
	return group + "." + key
}
