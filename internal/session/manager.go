// Package session tracks the active and authenticated caches and drives the
// remote service login lifecycle.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/gccache/internal/cache"
	"github.com/mcoot/gccache/internal/dependencies/clock"
	"github.com/mcoot/gccache/internal/dependencies/random"
	"github.com/mcoot/gccache/internal/events"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
)

// Config holds session manager configuration
type Config struct {
	// SyncOnLaunch synchronizes the authenticated cache right after login
	SyncOnLaunch bool
	// SyncInterval is the period of RunSync; zero disables periodic sync
	SyncInterval time.Duration
	// SyncJitter is the upper bound of the random delay added to each period
	SyncJitter time.Duration
}

// DefaultConfig returns the default session configuration
func DefaultConfig() Config {
	return Config{
		SyncOnLaunch: true,
		SyncInterval: 5 * time.Minute,
		SyncJitter:   30 * time.Second,
	}
}

// LaunchResult is the single outcome of a Launch call
type LaunchResult struct {
	Cache *cache.Cache
	Err   error
}

// Manager owns the launch/shutdown state machine.
// Active and authenticated caches are held as fingerprints and resolved
// through the store on access, so a cache is never referenced after removal.
// The manager never calls the store or the remote service while holding mu.
type Manager struct {
	store  *cache.Store
	remote remote.Service
	clock  clock.Clock
	random random.Random
	config Config
	logger *slog.Logger
	events events.Publisher

	mu            sync.Mutex
	state         model.LaunchState
	active        model.Fingerprint
	authenticated model.Fingerprint
	waiters       []chan LaunchResult
	generation    uint64
	cancelLaunch  context.CancelFunc
}

// NewManager creates a manager and registers it as the store's removal guard
func NewManager(
	store *cache.Store,
	remote remote.Service,
	clock clock.Clock,
	random random.Random,
	config Config,
	logger *slog.Logger,
) *Manager {
	m := &Manager{
		store:  store,
		remote: remote,
		clock:  clock,
		random: random,
		config: config,
		logger: logger,
		events: events.Discard,
		state:  model.LaunchStateIdle,
	}
	store.SetGuard(m)
	return m
}

// SetPublisher installs the sink for session change events
func (m *Manager) SetPublisher(p events.Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = p
}

func (m *Manager) publish(e events.Event) {
	m.mu.Lock()
	p := m.events
	m.mu.Unlock()
	e.Type = events.SessionChanged
	p.Publish(e)
}

// State returns the current launch state
func (m *Manager) State() model.LaunchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Launch logs in to the remote service. The returned channel receives exactly
// one result. A launch while authenticated resolves immediately with the
// authenticated cache; a launch while another is in flight shares its outcome.
// The login outlives ctx's cancellation; only Shutdown abandons it.
func (m *Manager) Launch(ctx context.Context) <-chan LaunchResult {
	result := make(chan LaunchResult, 1)

	m.mu.Lock()
	switch m.state {
	case model.LaunchStateAuthenticated:
		fp := m.authenticated
		m.mu.Unlock()
		c, ok := m.store.Lookup(fp)
		if !ok {
			result <- LaunchResult{Err: model.ErrProfileNotFound}
		} else {
			result <- LaunchResult{Cache: c}
		}
		return result
	case model.LaunchStateLaunching:
		m.waiters = append(m.waiters, result)
		m.mu.Unlock()
		return result
	}

	m.state = model.LaunchStateLaunching
	m.waiters = append(m.waiters, result)
	m.generation++
	generation := m.generation
	launchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancelLaunch = cancel
	m.mu.Unlock()

	m.logger.Info("launching remote session")
	m.publish(events.Event{State: model.LaunchStateLaunching})
	go m.authenticate(launchCtx, generation)
	return result
}

// LaunchFunc is Launch with a completion callback, invoked exactly once on
// its own goroutine
func (m *Manager) LaunchFunc(ctx context.Context, done func(LaunchResult)) {
	result := m.Launch(ctx)
	go func() {
		done(<-result)
	}()
}

func (m *Manager) authenticate(ctx context.Context, generation uint64) {
	profile, err := m.remote.Authenticate(ctx)

	var c *cache.Cache
	if err == nil {
		c, err = m.store.CacheForProfile(profile)
	}

	m.mu.Lock()
	if m.generation != generation {
		// Shutdown already resolved the waiters
		m.mu.Unlock()
		return
	}

	if err != nil {
		m.state = model.LaunchStateFailed
		waiters := m.endLaunchLocked()
		m.mu.Unlock()
		m.logger.Warn("remote login failed", slog.String("error", err.Error()))
		m.publish(events.Event{State: model.LaunchStateFailed, Error: err.Error()})
		deliver(waiters, LaunchResult{Err: err})
		return
	}

	// The launch stays in flight through the launch sync so that Shutdown
	// still cancels it and later launches still join it
	m.authenticated = c.Fingerprint()
	m.active = c.Fingerprint()
	c.SetConnected(true)
	m.mu.Unlock()

	m.logger.Info("remote session authenticated",
		slog.String("player_id", string(profile.PlayerID)),
		slog.String("fingerprint", string(c.Fingerprint())),
	)

	if m.config.SyncOnLaunch {
		if err := c.Synchronize(ctx); err != nil {
			m.logger.Warn("launch sync failed", slog.String("error", err.Error()))
		}
	}

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		return
	}
	m.state = model.LaunchStateAuthenticated
	waiters := m.endLaunchLocked()
	m.mu.Unlock()

	m.publish(events.Event{State: model.LaunchStateAuthenticated, Fingerprint: c.Fingerprint()})
	deliver(waiters, LaunchResult{Cache: c})
}

// endLaunchLocked releases the launch context and hands back the waiters
// to resolve. Caller holds m.mu.
func (m *Manager) endLaunchLocked() []chan LaunchResult {
	if m.cancelLaunch != nil {
		m.cancelLaunch()
		m.cancelLaunch = nil
	}
	waiters := m.waiters
	m.waiters = nil
	return waiters
}

func deliver(waiters []chan LaunchResult, result LaunchResult) {
	for _, w := range waiters {
		w <- result
	}
}

// Activate makes c the cache driving gameplay. No remote session is required.
func (m *Manager) Activate(c *cache.Cache) error {
	found, ok := m.store.Lookup(c.Fingerprint())
	if !ok || found != c {
		return model.ErrProfileNotFound
	}

	m.mu.Lock()
	m.active = c.Fingerprint()
	state := m.state
	m.mu.Unlock()

	m.publish(events.Event{State: state, Fingerprint: c.Fingerprint()})
	return nil
}

// ActiveCache returns the active cache, or nil
func (m *Manager) ActiveCache() *cache.Cache {
	m.mu.Lock()
	fp := m.active
	m.mu.Unlock()
	return m.resolve(fp)
}

// AuthenticatedCache returns the cache backed by the live remote session, or nil
func (m *Manager) AuthenticatedCache() *cache.Cache {
	m.mu.Lock()
	fp := m.authenticated
	m.mu.Unlock()
	return m.resolve(fp)
}

func (m *Manager) resolve(fp model.Fingerprint) *cache.Cache {
	if fp == "" {
		return nil
	}
	c, ok := m.store.Lookup(fp)
	if !ok {
		return nil
	}
	return c
}

// InUse reports whether fp is the active or authenticated cache
func (m *Manager) InUse(fp model.Fingerprint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fp != "" && (fp == m.active || fp == m.authenticated)
}

// Shutdown tears down the remote session. The active cache and the store are
// left untouched. An in-flight launch, including one still running its launch
// sync, resolves with ErrLaunchCancelled.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	fp := m.authenticated
	m.mu.Unlock()
	c := m.resolve(fp)

	m.mu.Lock()
	if c != nil && m.authenticated == c.Fingerprint() {
		c.SetConnected(false)
	}
	m.authenticated = ""
	m.state = model.LaunchStateIdle
	m.generation++
	waiters := m.endLaunchLocked()
	m.mu.Unlock()

	deliver(waiters, LaunchResult{Err: model.ErrLaunchCancelled})
	m.logger.Info("remote session shut down")
	m.publish(events.Event{State: model.LaunchStateIdle})

	return m.remote.Close(ctx)
}

// Synchronize reconciles the authenticated cache with the remote service
func (m *Manager) Synchronize(ctx context.Context) error {
	c := m.AuthenticatedCache()
	if c == nil {
		return model.ErrNotAuthenticated
	}
	return c.Synchronize(ctx)
}

// RunSync synchronizes the authenticated cache every SyncInterval plus
// jitter until ctx is done. Failures are logged and retried next period.
func (m *Manager) RunSync(ctx context.Context) {
	if m.config.SyncInterval <= 0 {
		return
	}

	for {
		wait := m.config.SyncInterval + m.random.Duration(m.config.SyncJitter)
		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(wait):
		}

		err := m.Synchronize(ctx)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrNotAuthenticated):
			m.logger.Debug("periodic sync skipped, not authenticated")
		default:
			m.logger.Warn("periodic sync failed", slog.String("error", err.Error()))
		}
	}
}
