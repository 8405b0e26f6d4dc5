// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"
)

// EnvSeparator splits an environment variable name into a nested [Path].
const EnvSeparator = "__"

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which will apply its config from the
// environment variables of the current process whose name starts
// with prefix. The prefix is stripped and the remaining name is split
// on [EnvSeparator], so with the prefix "APP_" the variable
// APP_worker__init=false sets the path worker.init. Names are
// otherwise used verbatim.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}

		err := store.Set(Path(strings.Split(name, EnvSeparator)), v)
		if err != nil {
			return err
		}
	}
	return nil
}
