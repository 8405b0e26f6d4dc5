// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health reports whether components and the things they depend on
// are healthy.
package health

import (
	"context"
	"sync"

	"github.com/z5labs/strata/component"
	"github.com/z5labs/strata/stream"
)

// Metric represents anything that can report its health status.
type Metric interface {
	Healthy(context.Context) bool
}

// MetricFunc is a func which implements the [Metric] interface.
type MetricFunc func(context.Context) bool

// Healthy implements the [Metric] interface.
func (f MetricFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

// Binary represents a health.Metric that is either healthy or not.
// The zero value represents a healthy state.
type Binary struct {
	mu        sync.Mutex
	unhealthy bool
	changes   *stream.Observable[bool]
}

// Changes returns the observable the health of m is published to. Its
// listeners run while m is locked and must not change m.
func (m *Binary) Changes() *stream.Observable[bool] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.observable()
}

func (m *Binary) observable() *stream.Observable[bool] {
	if m.changes == nil {
		m.changes = stream.NewObservable(stream.WithValue(!m.unhealthy))
	}
	return m.changes
}

// Toggle toggles the state of Binary.
func (m *Binary) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(m.unhealthy)
}

// Set marks m healthy or unhealthy.
func (m *Binary) Set(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(healthy)
}

func (m *Binary) set(healthy bool) {
	m.unhealthy = !healthy
	if m.changes != nil {
		m.changes.Publish(healthy)
	}
}

// Healthy implements the Metric interface.
func (m *Binary) Healthy(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.unhealthy
}

// AndMetric represents multiple Metrics all and'd together.
type AndMetric struct {
	metrics []Metric
}

// And returns a Metric where all the underlying Metrics healthy
// states are joined together via the logical and (&&) operator.
func And(metrics ...Metric) AndMetric {
	return AndMetric{
		metrics: metrics,
	}
}

// Healthy implements the Metric interface.
func (m AndMetric) Healthy(ctx context.Context) bool {
	for _, metric := range m.metrics {
		if !metric.Healthy(ctx) {
			return false
		}
	}
	return true
}

// OrMetric represents multiple Metrics all or'd together.
type OrMetric struct {
	metrics []Metric
}

// Or returns a Metric where all the underlying Metrics healthy
// states are joined together via the logical or (||) operator.
func Or(metrics ...Metric) OrMetric {
	return OrMetric{
		metrics: metrics,
	}
}

// Healthy implements the Metric interface.
func (m OrMetric) Healthy(ctx context.Context) bool {
	for _, metric := range m.metrics {
		if metric.Healthy(ctx) {
			return true
		}
	}
	return false
}

// NotMetric represents the not'd value of the underlying Metric.
type NotMetric struct {
	metric Metric
}

// Not returns a Metric where the underlying Metric healthy state
// is negated with the logical not (!) operator.
func Not(metric Metric) NotMetric {
	return NotMetric{
		metric: metric,
	}
}

// Healthy implements the Metric interface.
func (m NotMetric) Healthy(ctx context.Context) bool {
	return !m.metric.Healthy(ctx)
}

// Component reports c as healthy once it is initialized. It must be
// evaluated on the goroutine which owns c.
func Component(c *component.Instance) Metric {
	return MetricFunc(func(context.Context) bool {
		return c.State() == component.Initialized && !c.Failed().Opened()
	})
}

// Subtree reports c as healthy if c and all of its descendants are
// healthy according to [Component].
func Subtree(c *component.Instance) Metric {
	return MetricFunc(func(ctx context.Context) bool {
		if !Component(c).Healthy(ctx) {
			return false
		}
		for _, child := range c.Children() {
			if !Subtree(child).Healthy(ctx) {
				return false
			}
		}
		return true
	})
}
