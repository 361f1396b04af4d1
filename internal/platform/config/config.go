// Copyright (c) 2026 v-Tube. All rights reserved.
// Author: Dhirajsah18

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Fail Fast: [Config.Validate] rejects unsafe token settings before the server binds.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the v-Tube API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Optional: an empty URL disables the count cache.
	RedisURL      string        `env:"REDIS_URL"`
	CountCacheTTL time.Duration `env:"COUNT_CACHE_TTL" envDefault:"5m"`

	// Token signing. The two secrets must differ.
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"240h"`

	// Cookie transport
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`

	// Per-IP throttling
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"100"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"150"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the invariants env tags cannot express.
func (c *Config) Validate() error {
	var problems []error

	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		problems = append(problems, errors.New("token secrets must not be empty"))
	} else if c.AccessTokenSecret == c.RefreshTokenSecret {
		problems = append(problems, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		problems = append(problems, errors.New("token TTLs must be positive"))
	}

	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		problems = append(problems, errors.New("ACCESS_TOKEN_TTL must be shorter than REFRESH_TOKEN_TTL"))
	}

	if c.CountCacheTTL <= 0 {
		problems = append(problems, errors.New("COUNT_CACHE_TTL must be positive"))
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		problems = append(problems, errors.New("RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(problems...))
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// CacheEnabled reports whether a Redis URL was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}
