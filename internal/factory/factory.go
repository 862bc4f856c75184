package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/dependencies/clock"
	"github.com/mcoot/gccache/internal/dependencies/random"
	"github.com/mcoot/gccache/internal/events"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
	remotememory "github.com/mcoot/gccache/internal/remote/memory"
	"github.com/mcoot/gccache/internal/remote/rest"
	"github.com/mcoot/gccache/internal/session"
	"github.com/mcoot/gccache/internal/storage"
	"github.com/mcoot/gccache/internal/storage/memory"
	redisstorage "github.com/mcoot/gccache/internal/storage/redis"
	"github.com/mcoot/gccache/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// Remote type constants
const (
	RemoteTypeNone   = "none"
	RemoteTypeMemory = "memory"
	RemoteTypeREST   = "rest"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Remote remote.Service

	// Services
	Catalog  *catalog.Registry
	Store    *cache.Store
	Sessions *session.Manager
	Events   *events.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// RemoteType selects the remote service ("none", "memory" or "rest")
	// If empty, defaults to "none"
	RemoteType string
	// RESTConfig holds remote service settings (required if RemoteType is "rest")
	RESTConfig *rest.Config
	// DevProfile is the identity the in-memory remote service logs in as
	DevProfile model.Profile
	// SessionConfig holds session manager settings (optional)
	// If nil, defaults to session.DefaultConfig()
	SessionConfig *session.Config
	// Achievements and Leaderboards are registered at startup (optional)
	Achievements []string
	Leaderboards []model.Leaderboard
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := newRemote(cfg)
	if err != nil {
		closeStorage(store)
		return nil, err
	}

	sessionCfg := session.DefaultConfig()
	if cfg.SessionConfig != nil {
		sessionCfg = *cfg.SessionConfig
	}

	app := newWithDependencies(store, svc, clock.New(), random.New(), sessionCfg, logger)
	app.Catalog.RegisterAchievements(cfg.Achievements)
	app.Catalog.RegisterLeaderboards(cfg.Leaderboards)
	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliteStore, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

func newRemote(cfg Config) (remote.Service, error) {
	remoteType := cfg.RemoteType
	if remoteType == "" {
		remoteType = RemoteTypeNone
	}

	switch remoteType {
	case RemoteTypeNone:
		return remote.Unavailable{}, nil
	case RemoteTypeMemory:
		p := cfg.DevProfile
		if p.PlayerID == "" {
			p = model.Profile{PlayerID: "dev:1", Name: "Developer"}
		}
		return remotememory.New(p), nil
	case RemoteTypeREST:
		if cfg.RESTConfig == nil {
			return nil, errors.New("RESTConfig required when RemoteType is rest")
		}
		client, err := rest.New(*cfg.RESTConfig)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, errors.New("invalid RemoteType: must be 'none', 'memory' or 'rest'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	svc remote.Service,
	clk clock.Clock,
	rnd random.Random,
	sessionCfg session.Config,
	logger *slog.Logger,
) *App {
	registry := catalog.New()
	caches := cache.NewStore(store, registry, svc, clk, logger.With(slog.String("component", "cache")))
	sessions := session.NewManager(caches, svc, clk, rnd, sessionCfg, logger.With(slog.String("component", "session")))

	hub := events.NewHub(logger)
	go hub.Run()
	caches.SetPublisher(hub)
	sessions.SetPublisher(hub)

	return &App{
		Storage:  store,
		Clock:    clk,
		Random:   rnd,
		Remote:   svc,
		Catalog:  registry,
		Store:    caches,
		Sessions: sessions,
		Events:   hub,
	}
}

// Close disconnects event clients and releases the storage backend
func (a *App) Close() error {
	a.Events.Close()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func closeStorage(store storage.Storage) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}
