package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gccache/internal/factory"
	"github.com/mcoot/gccache/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8787, cfg.Port)
	assert.Equal(t, factory.StorageTypeSQLite, cfg.StorageType)
	assert.Equal(t, factory.RemoteTypeNone, cfg.RemoteType)
	assert.True(t, cfg.AutoLaunch)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Empty(t, cfg.Achievements)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GCCACHE_PORT", "9000")
	t.Setenv("GCCACHE_LOG_LEVEL", "debug")
	t.Setenv("GCCACHE_ACHIEVEMENTS", "first_blood,explorer")
	t.Setenv("GCCACHE_LEADERBOARDS", "hiscore,fastest:asc")
	t.Setenv("GCCACHE_SYNC_INTERVAL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"first_blood", "explorer"}, cfg.Achievements)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	boards, err := cfg.ParsedLeaderboards()
	require.NoError(t, err)
	assert.Equal(t, []model.Leaderboard{
		{ID: "hiscore", Order: model.SortDescending},
		{ID: "fastest", Order: model.SortAscending},
	}, boards)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("GCCACHE_PORT", "not-an-int")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse env:"))
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("GCCACHE_LOG_LEVEL", "chatty")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadLeaderboard(t *testing.T) {
	t.Setenv("GCCACHE_LEADERBOARDS", "hiscore:sideways")

	_, err := Load()
	assert.Error(t, err)
}

func TestFactoryRedisRequiresURL(t *testing.T) {
	cfg := Config{StorageType: factory.StorageTypeRedis}

	_, err := cfg.Factory(nil)
	assert.Error(t, err)

	cfg.RedisURL = "redis://localhost:6379"
	cfg.RedisKeyPrefix = "game"
	fc, err := cfg.Factory(nil)
	require.NoError(t, err)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "game", fc.RedisConfig.KeyPrefix)
}

func TestFactoryREST(t *testing.T) {
	cfg := Config{
		RemoteType:    factory.RemoteTypeREST,
		RemoteURL:     "https://games.example.com",
		RemoteToken:   "secret",
		RemoteTimeout: 3 * time.Second,
		SyncOnLaunch:  true,
	}

	fc, err := cfg.Factory(nil)
	require.NoError(t, err)
	require.NotNil(t, fc.RESTConfig)
	assert.Equal(t, "https://games.example.com", fc.RESTConfig.BaseURL)
	assert.Equal(t, 3*time.Second, fc.RESTConfig.Timeout)
	assert.True(t, fc.SessionConfig.SyncOnLaunch)
}
