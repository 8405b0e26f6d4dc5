// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command strata runs a demo supervisor tree of ticking workers until it
// is interrupted.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/config"
	"github.com/z5labs/strata/pkg/otelconfig"
	"github.com/z5labs/strata/pkg/otelslog"
	"github.com/z5labs/strata/pkg/slogfield"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

// EnvPrefix prefixes every environment variable read as config.
const EnvPrefix = "STRATA_"

// Config is the config of the demo tree.
type Config struct {
	Name     string        `config:"name"`
	Workers  int           `config:"workers"`
	Interval time.Duration `config:"interval"`

	Log struct {
		Level slog.Level `config:"level"`
	} `config:"log"`

	Trace struct {
		Enabled bool `config:"enabled"`
		Pretty  bool `config:"pretty"`
	} `config:"trace"`
}

var defaultConfig = config.Map{
	"name":     "strata",
	"workers":  3,
	"interval": "1s",
	"log": map[string]any{
		"level": "INFO",
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "strata",
		Short: "Run a supervisor tree of ticking workers",
		Long: `strata builds a supervisor component with one child per worker. Every worker
ticks at the configured interval and the supervisor keeps the total count.

Config is read from the defaults, then the optional YAML file and finally
from STRATA_ prefixed environment variables, e.g. STRATA_log__level=debug.
The YAML file is rendered as a text/template first, so {{ env "HOSTNAME" }}
reads an environment variable.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs := []config.Source{defaultConfig}
			if cfgPath != "" {
				f, err := os.Open(cfgPath)
				if err != nil {
					return err
				}
				srcs = append(srcs, config.FromYaml(config.RenderTemplate(f,
					config.TemplateFunc("env", os.Getenv),
				)))
			}
			srcs = append(srcs, config.FromEnv(EnvPrefix))

			return strata.Run(cmd.Context(), appBuilder(stdout, stderr), srcs...)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML config file")

	return cmd
}

func appBuilder(stdout, stderr io.Writer) strata.AppBuilder[Config] {
	return strata.AppBuilderFunc[Config](func(ctx context.Context, cfg Config) (strata.App, error) {
		if cfg.Workers < 1 {
			return nil, fmt.Errorf("workers must be positive but got %d", cfg.Workers)
		}
		if cfg.Interval <= 0 {
			return nil, fmt.Errorf("interval must be positive but got %s", cfg.Interval)
		}

		tracing := otelconfig.Noop
		if cfg.Trace.Enabled {
			opts := []otelconfig.LocalOption{
				otelconfig.ServiceName(cfg.Name),
				otelconfig.Writer(stdout),
			}
			if cfg.Trace.Pretty {
				opts = append(opts, otelconfig.PrettyPrint())
			}
			tracing = otelconfig.Local(opts...)
		}
		tp, err := tracing.Init(ctx)
		if err != nil {
			return nil, err
		}
		if cfg.Trace.Enabled {
			otel.SetTracerProvider(tp)
		}

		log := otelslog.New(
			slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.Log.Level}),
			otelslog.SpanEvents(slog.LevelWarn),
		)

		loop := strata.NewLoop()
		root, err := buildTree(ctx, cfg, loop, log)
		if err != nil {
			return nil, err
		}

		tree := strata.Tree(root, loop)
		return strata.AppFunc(func(ctx context.Context) error {
			err := tree.Run(ctx)
			log.InfoContext(ctx, "supervisor stopped", slogfield.Int("total", Total.Get(root)))
			serr := tp.Shutdown(context.WithoutCancel(ctx))
			if err != nil {
				return err
			}
			return serr
		}), nil
	})
}
