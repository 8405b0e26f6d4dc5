// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config reads configuration from one or more sources into a single
// nested key value tree.
//
// A [Source] writes its values into a [Store], leaf by leaf, addressed by a
// [Path]. [Read] applies sources in order so later sources override earlier
// ones while nested maps from different sources are merged:
//
//	m, err := config.Read(
//	    config.Map{"worker": map[string]any{"interval": "5s"}},
//	    config.FromYaml(f),
//	    config.FromEnv("STRATA_"),
//	)
//
// The resulting tree can be decoded into a struct with [Manager.Unmarshal],
// using the "config" struct tag, or handed over as a [Map].
package config
