package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	envPrefix = "RUNBOARD_"
	envConfig = "RUNBOARD_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if RUNBOARD_CONFIG is set
//  3. env (prefix RUNBOARD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Map env keys like RUNBOARD_DB_DRIVER -> db_driver (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be repaired by falling back to a default.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.EntriesField = strings.ToLower(strings.TrimSpace(c.EntriesField))

	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBDriver != "sqlite" && c.DBDriver != "postgres":
		return fmt.Errorf("%w: db_driver must be sqlite or postgres, got %q", ErrInvalidConfig, c.DBDriver)
	case c.DBDSN == "":
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	case c.DefaultLimit < 0:
		return fmt.Errorf("%w: default_limit must not be negative", ErrInvalidConfig)
	case c.MaxLimit < 1:
		return fmt.Errorf("%w: max_limit must be positive", ErrInvalidConfig)
	case c.DefaultLimit > c.MaxLimit:
		return fmt.Errorf("%w: default_limit %d exceeds max_limit %d", ErrInvalidConfig, c.DefaultLimit, c.MaxLimit)
	case c.EntriesField != "entries" && c.EntriesField != "results":
		return fmt.Errorf("%w: entries_field must be entries or results, got %q", ErrInvalidConfig, c.EntriesField)
	}
	return nil
}
