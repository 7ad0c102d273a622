// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads layered configuration for cmd/casepipe: compiled
// defaults, overridden by an optional YAML file, overridden by command
// line flags. Built on koanf, which is present in the teacher's go.mod
// but unused by any of its own code — this package is its first wiring.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the resolved configuration for a casepipe run.
type Config struct {
	LogFormat string `koanf:"log_format"`
	Verbose   bool   `koanf:"verbose"`
	MaxScopes int    `koanf:"max_scopes"`
}

// DefaultMaxScopes is the default for Config.MaxScopes, the configured
// scope-stack depth limit (spec.md §9's "recursion safety" open
// question: the core leaves the limit to the host). Validate requires
// it to be positive; the evaluator does not consult it, so user function
// recursion depth is not bounded by it.
const DefaultMaxScopes = 256

func defaults() Config {
	return Config{
		LogFormat: "json",
		Verbose:   false,
		MaxScopes: DefaultMaxScopes,
	}
}

// Load resolves a Config from compiled defaults, an optional YAML file
// at path (skipped silently if path is empty or the file is absent),
// and finally flags bound to fs. Flags win over the file, which wins
// over defaults.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	def := defaults()
	defaultMap := map[string]interface{}{
		"log_format": def.LogFormat,
		"verbose":    def.Verbose,
		"max_scopes": def.MaxScopes,
	}
	if err := k.Load(confmap.Provider(defaultMap, "."), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("operation", "load defaults").Wrap(err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("operation", "load config file").With("path", path).Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("operation", "stat config file").With("path", path).Wrap(err)
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("operation", "load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}
	return cfg, nil
}

// Validate checks that the resolved configuration is usable.
func (c Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.MaxScopes <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("max-scopes must be positive, got %d", c.MaxScopes)
	}
	return nil
}
