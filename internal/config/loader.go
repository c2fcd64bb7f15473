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

	"github.com/pugmate/pugmate/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PUGMATE_CONFIG is set
//  3. env (prefix PUGMATE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PUGMATE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PUGMATE_ADDR, PUGMATE_SIGMA_FLOOR, ...
	// Map env keys like PUGMATE_SIGMA_FLOOR -> sigma_floor (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("PUGMATE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pugmate_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultWeights returns the configured default weights pair.
func (c *Config) DefaultWeights() model.Weights {
	return model.Weights{Fairness: c.FairnessWeight, Priority: c.PriorityWeight}
}

// validate rejects configurations the service cannot run with. Weight
// problems are caught here, at load time, never at match time.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.DefaultWeights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.SigmaFloor <= 0 || c.InitialSigma <= 0 {
		return fmt.Errorf("%w: sigma values must be positive", ErrInvalidConfig)
	}
	if c.SigmaFloor > c.InitialSigma {
		return fmt.Errorf("%w: sigma_floor exceeds initial_sigma", ErrInvalidConfig)
	}
	if c.SigmaDecay <= 0 || c.SigmaDecay > 1 {
		return fmt.Errorf("%w: sigma_decay must be in (0,1]", ErrInvalidConfig)
	}
	if c.Beta <= 0 {
		return fmt.Errorf("%w: beta must be positive", ErrInvalidConfig)
	}
	if c.DrawRate < 0 || c.DrawRate > 1 {
		return fmt.Errorf("%w: draw_rate must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
