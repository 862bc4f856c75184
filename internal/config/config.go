// Package config loads daemon configuration from GCCACHE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/factory"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote/rest"
	"github.com/mcoot/gccache/internal/session"
	redisstorage "github.com/mcoot/gccache/internal/storage/redis"
)

// Config is the daemon configuration
type Config struct {
	Host     string `env:"GCCACHE_HOST"      envDefault:"127.0.0.1"`
	Port     int    `env:"GCCACHE_PORT"      envDefault:"8787"`
	LogLevel string `env:"GCCACHE_LOG_LEVEL" envDefault:"info"`

	StorageType    string `env:"GCCACHE_STORAGE_TYPE"     envDefault:"sqlite"`
	SQLitePath     string `env:"GCCACHE_SQLITE_PATH"      envDefault:"gccache.db"`
	RedisURL       string `env:"GCCACHE_REDIS_URL"`
	RedisKeyPrefix string `env:"GCCACHE_REDIS_KEY_PREFIX" envDefault:"gccache"`

	RemoteType    string        `env:"GCCACHE_REMOTE_TYPE"    envDefault:"none"`
	RemoteURL     string        `env:"GCCACHE_REMOTE_URL"`
	RemoteToken   string        `env:"GCCACHE_REMOTE_TOKEN"`
	RemoteTimeout time.Duration `env:"GCCACHE_REMOTE_TIMEOUT" envDefault:"10s"`

	AutoLaunch   bool          `env:"GCCACHE_AUTO_LAUNCH"    envDefault:"true"`
	SyncOnLaunch bool          `env:"GCCACHE_SYNC_ON_LAUNCH" envDefault:"true"`
	SyncInterval time.Duration `env:"GCCACHE_SYNC_INTERVAL"  envDefault:"5m"`
	SyncJitter   time.Duration `env:"GCCACHE_SYNC_JITTER"    envDefault:"30s"`

	Achievements []string `env:"GCCACHE_ACHIEVEMENTS" envSeparator:","`
	// Leaderboards entries are "id" or "id:asc" for lower-is-better boards
	Leaderboards []string `env:"GCCACHE_LEADERBOARDS" envSeparator:","`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the daemon configuration
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.ParsedLeaderboards(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// ParsedLeaderboards parses the leaderboard definitions
func (c Config) ParsedLeaderboards() ([]model.Leaderboard, error) {
	return catalog.ParseLeaderboards(c.Leaderboards)
}

// Factory builds the application factory configuration
func (c Config) Factory(logger *slog.Logger) (factory.Config, error) {
	boards, err := c.ParsedLeaderboards()
	if err != nil {
		return factory.Config{}, err
	}

	cfg := factory.Config{
		Logger:       logger,
		StorageType:  c.StorageType,
		SQLitePath:   c.SQLitePath,
		RemoteType:   c.RemoteType,
		Achievements: c.Achievements,
		Leaderboards: boards,
		SessionConfig: &session.Config{
			SyncOnLaunch: c.SyncOnLaunch,
			SyncInterval: c.SyncInterval,
			SyncJitter:   c.SyncJitter,
		},
	}

	if c.StorageType == factory.StorageTypeRedis {
		if c.RedisURL == "" {
			return factory.Config{}, fmt.Errorf("GCCACHE_REDIS_URL required when GCCACHE_STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		redisCfg.KeyPrefix = c.RedisKeyPrefix
		cfg.RedisConfig = &redisCfg
	}

	if c.RemoteType == factory.RemoteTypeREST {
		restCfg := rest.DefaultConfig()
		restCfg.BaseURL = c.RemoteURL
		restCfg.Token = c.RemoteToken
		restCfg.Timeout = c.RemoteTimeout
		cfg.RESTConfig = &restCfg
	}

	return cfg, nil
}
