// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/z5labs/strata/component"
	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/lifecycle"
	"github.com/z5labs/strata/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinary(t *testing.T) {
	t.Run("will start healthy", func(t *testing.T) {
		var m Binary
		assert.True(t, m.Healthy(context.Background()))
	})

	t.Run("will flip on toggle", func(t *testing.T) {
		var m Binary
		m.Toggle()
		assert.False(t, m.Healthy(context.Background()))
		m.Toggle()
		assert.True(t, m.Healthy(context.Background()))
	})

	t.Run("will publish only actual changes", func(t *testing.T) {
		var m Binary
		var got []bool
		m.Changes().Watch(stream.NewHandler(func(ch stream.Change[bool]) {
			got = append(got, ch.Value)
		}))

		m.Set(true)
		m.Set(false)
		m.Set(false)
		m.Toggle()

		assert.Equal(t, []bool{false, true}, got)
	})
}

type healthyMetric bool

func (m healthyMetric) Healthy(_ context.Context) bool {
	return bool(m)
}

func TestOperators(t *testing.T) {
	testCases := []struct {
		Name    string
		Metric  Metric
		Healthy bool
	}{
		{Name: "and of nothing", Metric: And(), Healthy: true},
		{Name: "and of healthy metrics", Metric: And(healthyMetric(true), healthyMetric(true)), Healthy: true},
		{Name: "and with an unhealthy metric", Metric: And(healthyMetric(true), healthyMetric(false))},
		{Name: "or of nothing", Metric: Or()},
		{Name: "or with a healthy metric", Metric: Or(healthyMetric(false), healthyMetric(true)), Healthy: true},
		{Name: "or of unhealthy metrics", Metric: Or(healthyMetric(false), healthyMetric(false))},
		{Name: "not of a healthy metric", Metric: Not(healthyMetric(true))},
		{Name: "not of an unhealthy metric", Metric: Not(healthyMetric(false)), Healthy: true},
	}

	for _, testCase := range testCases {
		t.Run("will evaluate "+testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Healthy, testCase.Metric.Healthy(context.Background()))
		})
	}
}

func TestComponent(t *testing.T) {
	ctx := context.Background()

	t.Run("will follow the lifecycle of the component", func(t *testing.T) {
		c, err := component.New(ctx, component.MustDefine("c"), component.WithConfig(config.Map{"init": false}))
		require.NoError(t, err)

		m := Component(c)
		assert.False(t, m.Healthy(ctx))

		require.NoError(t, c.Init(ctx))
		assert.True(t, m.Healthy(ctx))

		require.NoError(t, c.Destroy(ctx))
		assert.False(t, m.Healthy(ctx))
	})

	t.Run("will report a failed component as unhealthy", func(t *testing.T) {
		def := component.MustDefine("c", component.Init(lifecycle.Sync(func(context.Context, *component.Instance) error {
			return errors.New("boom")
		})))

		c, err := component.New(ctx, def)
		require.Error(t, err)
		assert.False(t, Component(c).Healthy(ctx))
	})

	t.Run("will check every descendant", func(t *testing.T) {
		root, err := component.New(ctx, component.MustDefine("root"))
		require.NoError(t, err)
		child, err := component.New(ctx, component.MustDefine("child"), component.WithParent(root))
		require.NoError(t, err)
		_, err = component.New(ctx, component.MustDefine("leaf"),
			component.WithParent(child),
			component.WithConfig(config.Map{"init": false}),
		)
		require.NoError(t, err)

		assert.True(t, Component(root).Healthy(ctx))
		assert.False(t, Subtree(root).Healthy(ctx))

		require.NoError(t, root.Destroy(ctx))
	})
}
