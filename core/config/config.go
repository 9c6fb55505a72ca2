// Package config loads runtime settings from the environment.
// CLI flags may override individual fields after Load.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gaurav-prasanna/storypdf/core/source"
)

// Config holds all runtime configuration for storypdf.
type Config struct {
	// Story site transport
	BaseURL        string        `env:"BASE_URL"        envDefault:"https://www.hentai-foundry.com/stories/user/_/"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	RetryCount     int           `env:"RETRY_COUNT"     envDefault:"0"`
	RateLimit      float64       `env:"RATE_LIMIT"      envDefault:"0"`
	UserAgent      string        `env:"USER_AGENT"`

	// Workers bounds concurrent chapter fetches; 1 fetches sequentially.
	Workers int `env:"WORKERS" envDefault:"4"`

	OutputDir string `env:"OUTPUT_DIR"`

	// Sanitizer rules applied to descriptions and chapter text
	SanitizeStripDivs      bool `env:"SANITIZE_STRIP_DIVS"       envDefault:"true"`
	SanitizeStripNofollow  bool `env:"SANITIZE_STRIP_NOFOLLOW"   envDefault:"true"`
	SanitizeStripSpanStyle bool `env:"SANITIZE_STRIP_SPAN_STYLE" envDefault:"true"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Web UI
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// Empty RedisURL selects the in-memory cache.
	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "STORYPDF_"

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("config: RETRY_COUNT must not be negative, got %d", c.RetryCount)
	}
	if c.BaseURL == "" {
		c.BaseURL = source.DefaultBaseURL
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}
