// Package config loads the service configuration from the environment. The
// result is an immutable value built once at process start and passed to the
// components that need it.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultPort is used when PORT is unset, non-numeric or out of range.
const DefaultPort = 3000

// DefaultEnv is reported when neither APP_ENV nor NODE_ENV is set.
const DefaultEnv = "development"

// Port is a TCP port that never fails to parse. Anything that isn't a valid
// port number falls back to DefaultPort. Zero asks the OS for a free port.
type Port int

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Port) UnmarshalText(text []byte) error {
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil || n < 0 || n > 65535 {
		*p = DefaultPort
		return nil
	}
	*p = Port(n)
	return nil
}

// Config holds the settings for the service. Fields are exported so that
// env.Parse can populate them; callers treat the value as read-only.
type Config struct {
	Port Port   `env:"PORT" envDefault:"3000"`
	Env  string `env:"APP_ENV"`

	// NodeEnv is the fallback for Env, kept so existing deployment manifests
	// keep working.
	NodeEnv string `env:"NODE_ENV"`

	// ShutdownTimeout bounds the draining phase.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Limiter struct {
		Enabled bool    `env:"LIMITER_ENABLED" envDefault:"false"`
		RPS     float64 `env:"LIMITER_RPS" envDefault:"2"`   // Requests per second per client.
		Burst   int     `env:"LIMITER_BURST" envDefault:"4"` // Max requests in a burst.
	}

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load parses environ into a Config. A nil environ means the process
// environment.
func Load(environ map[string]string) (Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Env = strings.TrimSpace(cfg.Env)
	if cfg.Env == "" {
		cfg.Env = strings.TrimSpace(cfg.NodeEnv)
	}
	if cfg.Env == "" {
		cfg.Env = DefaultEnv
	}

	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("parse env: SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
