// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package strata

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/strata/component"
	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/internal/try"

	"github.com/stretchr/testify/require"
)

type appConfig struct {
	Name    string        `config:"name"`
	Timeout time.Duration `config:"timeout"`
}

func TestRun(t *testing.T) {
	t.Run("will build the app from the unmarshalled config", func(t *testing.T) {
		var got appConfig
		builder := AppBuilderFunc[appConfig](func(ctx context.Context, cfg appConfig) (App, error) {
			got = cfg
			return AppFunc(func(context.Context) error { return nil }), nil
		})

		err := Run(context.Background(), builder,
			config.FromYaml(strings.NewReader("name: demo\ntimeout: 2s")),
			config.Map{"name": "override"},
		)
		require.NoError(t, err)
		require.Equal(t, appConfig{Name: "override", Timeout: 2 * time.Second}, got)
	})

	t.Run("will return a", func(t *testing.T) {
		buildErr := errors.New("build failed")
		runErr := errors.New("run failed")
		noop := AppFunc(func(context.Context) error { return nil })

		testCases := []struct {
			Name    string
			Builder AppBuilder[appConfig]
			Sources []config.Source
			Check   func(*testing.T, error)
		}{
			{
				Name: "ConfigReadError if a source fails",
				Builder: AppBuilderFunc[appConfig](func(context.Context, appConfig) (App, error) {
					return noop, nil
				}),
				Sources: []config.Source{config.FromYaml(strings.NewReader("name: [unterminated"))},
				Check: func(t *testing.T, err error) {
					var target ConfigReadError
					require.ErrorAs(t, err, &target)
				},
			},
			{
				Name: "ConfigUnmarshalError if the config does not fit",
				Builder: AppBuilderFunc[appConfig](func(context.Context, appConfig) (App, error) {
					return noop, nil
				}),
				Sources: []config.Source{config.Map{"timeout": "soon"}},
				Check: func(t *testing.T, err error) {
					var target ConfigUnmarshalError
					require.ErrorAs(t, err, &target)
				},
			},
			{
				Name: "AppBuildError if the builder fails",
				Builder: AppBuilderFunc[appConfig](func(context.Context, appConfig) (App, error) {
					return nil, buildErr
				}),
				Check: func(t *testing.T, err error) {
					var target AppBuildError
					require.ErrorAs(t, err, &target)
					require.ErrorIs(t, err, buildErr)
				},
			},
			{
				Name: "AppRunError if the app fails",
				Builder: AppBuilderFunc[appConfig](func(context.Context, appConfig) (App, error) {
					return AppFunc(func(context.Context) error { return runErr }), nil
				}),
				Check: func(t *testing.T, err error) {
					var target AppRunError
					require.ErrorAs(t, err, &target)
					require.ErrorIs(t, err, runErr)
				},
			},
			{
				Name: "PanicError if the app panics",
				Builder: AppBuilderFunc[appConfig](func(context.Context, appConfig) (App, error) {
					return AppFunc(func(context.Context) error { panic("boom") }), nil
				}),
				Check: func(t *testing.T, err error) {
					var target try.PanicError
					require.ErrorAs(t, err, &target)
					require.Equal(t, "boom", target.Value)
				},
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				err := Run(context.Background(), testCase.Builder, testCase.Sources...)
				testCase.Check(t, err)
			})
		}
	})
}

func TestAll(t *testing.T) {
	t.Run("will cancel the other apps once one fails", func(t *testing.T) {
		appErr := errors.New("failed")
		cancelled := make(chan struct{})

		err := All(
			AppFunc(func(ctx context.Context) error {
				<-ctx.Done()
				close(cancelled)
				return nil
			}),
			AppFunc(func(context.Context) error { return appErr }),
		).Run(context.Background())

		require.ErrorIs(t, err, appErr)
		select {
		case <-cancelled:
		default:
			t.Fatal("expected the first app to be cancelled")
		}
	})

	t.Run("will recover panicking apps", func(t *testing.T) {
		err := All(AppFunc(func(context.Context) error { panic("boom") })).Run(context.Background())

		var target try.PanicError
		require.ErrorAs(t, err, &target)
	})
}

func TestTree(t *testing.T) {
	t.Run("will destroy the root once the context is done", func(t *testing.T) {
		loop := NewLoop()
		root, err := component.New(context.Background(), component.MustDefine("root"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.NoError(t, Tree(root, loop).Run(ctx))
		require.Equal(t, component.Destroyed, root.State())
		require.False(t, loop.Post(func() {}))
	})

	t.Run("will run posted calls and scheduled methods on the loop", func(t *testing.T) {
		save := component.MethodOf[int, int]("save")

		loop := NewLoop()
		saved := make(chan int, 1)
		root, err := component.New(context.Background(),
			component.MustDefine("root", save.Impl(func(_ *component.Instance, n int) int {
				saved <- n
				return n
			}, component.Debounce(time.Millisecond))),
			component.WithScheduler(loop),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() {
			done <- Tree(root, loop).Run(ctx)
		}()

		loop.Post(func() {
			save.Call(root, 1)
			save.Call(root, 2)
		})

		select {
		case n := <-saved:
			require.Equal(t, 2, n)
		case <-time.After(5 * time.Second):
			t.Fatal("debounced call never ran")
		}

		cancel()
		require.NoError(t, <-done)
		require.Equal(t, component.Destroyed, root.State())
	})
}
