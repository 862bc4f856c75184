package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string        `env:"GCCACHE_SERVER" envDefault:"http://127.0.0.1:8787"`
	Output    string        `env:"GCCACHE_OUTPUT" envDefault:"text"`
	Timeout   time.Duration `env:"GCCACHE_CLIENT_TIMEOUT" envDefault:"60s"`
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks flag values after parsing
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text or json)", c.Output)
	}
}
