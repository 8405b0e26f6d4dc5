// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package component

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/stream"

	"github.com/stretchr/testify/require"
)

func TestNew_Properties(t *testing.T) {
	level := PropertyOf[string]("level")
	port := PropertyOf[int]("port")

	t.Run("will start from the declared default", func(t *testing.T) {
		c := newInstance(t, MustDefine("d", level.Declare(Default("info"))))
		require.Equal(t, "info", level.Get(c))
	})

	t.Run("will start from the config value", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", level.Declare(Default("info"))),
			WithConfig(config.Map{"level": "debug"}),
		)
		require.Equal(t, "debug", level.Get(c))
	})

	t.Run("will decode config values of a different type", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", port.Declare()),
			WithConfig(config.Map{"port": "8080"}),
		)
		require.Equal(t, 8080, port.Get(c))
	})

	t.Run("will fail on config values which cannot be decoded", func(t *testing.T) {
		_, err := New(context.Background(),
			MustDefine("d", port.Declare()),
			WithConfig(config.Map{"port": "eighty"}),
		)

		var cfgErr ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "port", cfgErr.Key)
	})

	t.Run("will coerce the initial and every later value", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", level.Declare(Default("INFO"), CoerceWith(strings.ToLower))),
		)
		require.Equal(t, "info", level.Get(c))

		level.Set(c, "WARN")
		require.Equal(t, "warn", level.Get(c))
	})

	t.Run("will replay the initial value to default listeners", func(t *testing.T) {
		var got []stream.Change[string]
		c := newInstance(t, MustDefine("d",
			level.Declare(Default("info"), OnChange(func(_ *Instance, ch stream.Change[string]) {
				got = append(got, ch)
			})),
		))
		level.Set(c, "debug")

		require.Equal(t, []stream.Change[string]{
			{Value: "info"},
			{Value: "debug", Prev: "info", HasPrev: true},
		}, got)
	})

	t.Run("will bind change listeners from the config after init without replay", func(t *testing.T) {
		var got []stream.Change[string]
		c := newInstance(t,
			MustDefine("d", level.Declare(Default("info"))),
			WithConfig(config.Map{
				"levelChange": func(ch stream.Change[string]) {
					got = append(got, ch)
				},
			}),
		)
		require.Empty(t, got)

		level.Set(c, "debug")
		level.Set(c, "debug")
		require.Equal(t, []stream.Change[string]{
			{Value: "debug", Prev: "info", HasPrev: true},
		}, got)
	})

	t.Run("will not bind change listeners before a deferred init", func(t *testing.T) {
		var got []string
		c := newInstance(t,
			MustDefine("d", level.Declare(Default("info"))),
			WithConfig(config.Map{
				"init": false,
				"levelChange": func(_ *Instance, ch stream.Change[string]) {
					got = append(got, ch.Value)
				},
			}),
		)
		level.Set(c, "warn")
		require.Empty(t, got)

		require.NoError(t, c.Init(context.Background()))
		level.Set(c, "error")
		require.Equal(t, []string{"error"}, got)
	})
}

func TestNew_Config(t *testing.T) {
	t.Run("will bind functions from the config", func(t *testing.T) {
		hello := FuncOf[func() string]("hello")
		def := MustDefine("d", hello.Impl(func(*Instance) func() string {
			return func() string { return "default" }
		}))

		c := newInstance(t, def)
		require.Equal(t, "default", hello.Of(c)())

		c = newInstance(t, def, WithConfig(config.Map{
			"hello": func() string { return "configured" },
		}))
		require.Equal(t, "configured", hello.Of(c)())

		c = newInstance(t, def, WithName("bound"), WithConfig(config.Map{
			"hello": func(c *Instance) func() string {
				return func() string { return c.Name() }
			},
		}))
		require.Equal(t, "bound", hello.Of(c)())
	})

	t.Run("will replace method implementations from the config", func(t *testing.T) {
		greet := MethodOf[string, string]("greet")
		def := MustDefine("d", greet.Impl(func(_ *Instance, s string) string { return "hello " + s }))

		c := newInstance(t, def, WithConfig(config.Map{
			"greet": func(s string) string { return "hi " + s },
		}))
		require.Equal(t, "hi bob", greet.Call(c, "bob"))
	})

	t.Run("will subscribe stream listeners from the config", func(t *testing.T) {
		ticks := TriggerOf[int]("ticks")

		var got []int
		c := newInstance(t, MustDefine("d", ticks.Declare()), WithConfig(config.Map{
			"ticks": func(n int) { got = append(got, n) },
		}))
		ticks.Of(c).Publish(3)

		require.Equal(t, []int{3}, got)
	})

	t.Run("will fail on a config value of the wrong type for a member", func(t *testing.T) {
		_, err := New(context.Background(),
			MustDefine("d", TriggerOf[int]("ticks").Declare()),
			WithConfig(config.Map{"ticks": "not a listener"}),
		)
		require.ErrorIs(t, err, ErrUnexpectedType)

		var cfgErr ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "ticks", cfgErr.Key)
	})

	t.Run("will keep keys which name no member as values", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", Defaults(config.Map{"timeout": "5s", "retries": 3})),
			WithConfig(config.Map{"retries": 5}),
		)

		v, ok := c.Value("retries")
		require.True(t, ok)
		require.Equal(t, 5, v)

		timeout, err := ValueOf[time.Duration](c, "timeout")
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, timeout)

		_, err = ValueOf[int](c, "missing")
		require.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("will deep merge the caller config over the defaults", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", Defaults(config.Map{"http": map[string]any{"host": "localhost", "port": 80}})),
			WithConfig(config.Map{"http": map[string]any{"port": 8080}}),
		)

		type httpConfig struct {
			Host string `config:"host"`
			Port int    `config:"port"`
		}
		var cfg struct {
			HTTP httpConfig `config:"http"`
		}
		require.NoError(t, c.Decode(&cfg))
		require.Equal(t, httpConfig{Host: "localhost", Port: 8080}, cfg.HTTP)
	})

	t.Run("will read config from every source in order", func(t *testing.T) {
		c := newInstance(t,
			MustDefine("d", PropertyOf[string]("level").Declare()),
			WithConfig(
				config.FromYaml(strings.NewReader("level: warn\nname: yaml")),
				config.Map{"level": "error"},
			),
		)

		require.Equal(t, "error", PropertyOf[string]("level").Get(c))
		name, err := ValueOf[string](c, "name")
		require.NoError(t, err)
		require.Equal(t, "yaml", name)
	})
}

func TestNew_Requires(t *testing.T) {
	testCases := []struct {
		Name   string
		Decls  []Decl
		Config config.Map
		Err    error
	}{
		{
			Name:  "missing value",
			Decls: []Decl{Requires("url", nil)},
			Err:   ErrMissingField,
		},
		{
			Name:   "value of the wrong type",
			Decls:  []Decl{Requires("url", IsA[string]())},
			Config: config.Map{"url": 5},
			Err:    MismatchError{Contract: "string", Value: 5},
		},
		{
			Name: "property outside the allowed values",
			Decls: []Decl{
				PropertyOf[string]("level").Declare(Default("trace")),
				Requires("level", OneOf("info", "debug")),
			},
			Err: MismatchError{Contract: "one of [info debug]", Value: "trace"},
		},
		{
			Name:  "property without a value",
			Decls: []Decl{PropertyOf[string]("level").Declare(), Requires("level", nil)},
			Err:   ErrMissingField,
		},
	}

	for _, testCase := range testCases {
		t.Run("will fail on "+testCase.Name, func(t *testing.T) {
			_, err := New(context.Background(), MustDefine("d", testCase.Decls...), WithConfig(testCase.Config))
			require.ErrorIs(t, err, testCase.Err)

			var contractErr ContractError
			require.ErrorAs(t, err, &contractErr)
		})
	}

	t.Run("will accept members and values which satisfy their contract", func(t *testing.T) {
		hello := FuncOf[func() string]("hello")
		trait := NewTrait("needs-hello",
			Requires("hello", IsA[func() string]()),
			Requires("tags", Each(NotEmpty())),
		)

		newInstance(t,
			MustDefine("d",
				Traits(trait),
				hello.Impl(func(*Instance) func() string { return func() string { return "" } }),
			),
			WithConfig(config.Map{"tags": []any{"a", "b"}}),
		)
	})

	t.Run("will let the definition tighten a trait requirement", func(t *testing.T) {
		trait := NewTrait("t", Requires("mode", nil))
		def := MustDefine("d", Traits(trait), Requires("mode", OneOf("a", "b")))

		_, err := New(context.Background(), def, WithConfig(config.Map{"mode": "c"}))

		var mismatch MismatchError
		require.ErrorAs(t, err, &mismatch)
	})
}

func TestNew_Aliases(t *testing.T) {
	t.Run("will call the aliased method", func(t *testing.T) {
		double := MethodOf[int, int]("double")
		twice := FuncOf[func(int) int]("twice")

		c := newInstance(t, MustDefine("d",
			double.Impl(func(_ *Instance, n int) int { return 2 * n }),
			twice.Alias("double"),
		))
		require.Equal(t, 8, twice.Of(c)(4))
	})

	t.Run("will follow the replaced implementation of the target", func(t *testing.T) {
		double := MethodOf[int, int]("double")
		twice := FuncOf[func(int) int]("twice")

		c := newInstance(t,
			MustDefine("d",
				double.Impl(func(_ *Instance, n int) int { return 2 * n }),
				twice.Alias("double"),
			),
			WithConfig(config.Map{"double": func(n int) int { return n + n + 1 }}),
		)
		require.Equal(t, 9, twice.Of(c)(4))
	})

	t.Run("will alias destroy", func(t *testing.T) {
		closeFn := FuncOf[func(context.Context) error]("close")

		c := newInstance(t, MustDefine("d", closeFn.Alias("destroy")))
		require.NoError(t, closeFn.Of(c)(context.Background()))
		require.Equal(t, Destroyed, c.State())
	})
}

func TestListen(t *testing.T) {
	t.Run("will stop listening once the listener is destroyed", func(t *testing.T) {
		ticks := TriggerOf[int]("ticks")
		src := newInstance(t, MustDefine("src", ticks.Declare()))
		dst := newInstance(t, MustDefine("dst"))

		var got []int
		Listen(dst, ticks.Of(src), func(n int) { got = append(got, n) })

		ticks.Of(src).Publish(1)
		require.NoError(t, dst.Destroy(context.Background()))
		ticks.Of(src).Publish(2)

		require.Equal(t, []int{1}, got)
		require.Zero(t, ticks.Of(src).Len())
	})

	t.Run("will stop delivering once the source is destroyed", func(t *testing.T) {
		ticks := TriggerOf[int]("ticks")
		src := newInstance(t, MustDefine("src", ticks.Declare()))
		dst := newInstance(t, MustDefine("dst"))

		var got []int
		h := Listen(dst, ticks.Of(src), func(n int) { got = append(got, n) })
		require.NoError(t, src.Destroy(context.Background()))
		ticks.Of(src).Publish(1)

		require.Empty(t, got)
		require.Zero(t, h.Subscriptions())
	})
}
