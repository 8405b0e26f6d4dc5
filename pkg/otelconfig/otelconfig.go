// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelconfig initializes the tracer provider component spans are
// recorded with.
package otelconfig

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider is a [trace.TracerProvider] which must be shut down to flush
// its spans.
type Provider interface {
	trace.TracerProvider
	Shutdown(context.Context) error
}

// Initializer creates a [Provider].
type Initializer interface {
	Init(context.Context) (Provider, error)
}

// Noop keeps using the global tracer provider.
var Noop Initializer = noopInitializer{}

type noopInitializer struct{}

func (noopInitializer) Init(context.Context) (Provider, error) {
	return globalProvider{otel.GetTracerProvider()}, nil
}

type globalProvider struct {
	trace.TracerProvider
}

func (globalProvider) Shutdown(context.Context) error {
	return nil
}

// LocalConfig configures the [Local] initializer.
type LocalConfig struct {
	ServiceName string `config:"serviceName"`
	PrettyPrint bool   `config:"prettyPrint"`

	Out io.Writer
}

// LocalOption configures the [Local] initializer.
type LocalOption func(*LocalConfig)

// ServiceName sets the service name resource attribute.
func ServiceName(name string) LocalOption {
	return func(cfg *LocalConfig) {
		cfg.ServiceName = name
	}
}

// Writer sets where spans are written to. It defaults to [os.Stdout].
func Writer(w io.Writer) LocalOption {
	return func(cfg *LocalConfig) {
		cfg.Out = w
	}
}

// PrettyPrint indents the written spans.
func PrettyPrint() LocalOption {
	return func(cfg *LocalConfig) {
		cfg.PrettyPrint = true
	}
}

// Local returns an [Initializer] which writes spans as JSON.
func Local(opts ...LocalOption) Initializer {
	cfg := LocalConfig{
		Out: os.Stdout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Init implements the [Initializer] interface.
func (cfg LocalConfig) Init(ctx context.Context) (Provider, error) {
	exporterOpts := []stdouttrace.Option{stdouttrace.WithWriter(cfg.Out)}
	if cfg.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	return tp, nil
}
