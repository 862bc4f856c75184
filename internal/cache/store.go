// Package cache holds the in-memory profile caches and the store that owns them.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/dependencies/clock"
	"github.com/mcoot/gccache/internal/events"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
	"github.com/mcoot/gccache/internal/storage"
)

// Guard reports whether a cache is referenced by a live session and must not be removed
type Guard interface {
	InUse(fp model.Fingerprint) bool
}

// Store owns every resident Cache, at most one per fingerprint.
// Lock order is store, then guard, then cache.
type Store struct {
	storage storage.Storage
	catalog *catalog.Registry
	remote  remote.Service
	clock   clock.Clock
	logger  *slog.Logger
	events  events.Publisher

	mu     sync.RWMutex
	caches map[model.Fingerprint]*Cache
	order  []model.Fingerprint
	guard  Guard
}

// NewStore creates an empty store
func NewStore(
	storage storage.Storage,
	catalog *catalog.Registry,
	remote remote.Service,
	clock clock.Clock,
	logger *slog.Logger,
) *Store {
	return &Store{
		storage: storage,
		catalog: catalog,
		remote:  remote,
		clock:   clock,
		logger:  logger,
		events:  events.Discard,
		caches:  make(map[model.Fingerprint]*Cache),
	}
}

// SetPublisher installs the sink for profile change events
func (s *Store) SetPublisher(p events.Publisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = p
}

// SetGuard installs the in-use check consulted by removals
func (s *Store) SetGuard(g Guard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard = g
}

// Catalog returns the registry submissions are validated against
func (s *Store) Catalog() *catalog.Registry {
	return s.catalog
}

// Load reads every persisted snapshot into the store.
// Resident caches are authoritative and are not replaced.
func (s *Store) Load(ctx context.Context) error {
	snaps, err := s.storage.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := 0
	for _, snap := range snaps {
		if _, ok := s.caches[snap.Fingerprint]; ok {
			continue
		}
		s.register(newCacheFromSnapshot(s, snap))
		loaded++
	}

	s.logger.Info("loaded profiles", slog.Int("count", loaded))
	return nil
}

// CachedProfiles returns summaries of all resident caches in registration order
func (s *Store) CachedProfiles() []model.ProfileSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]model.ProfileSummary, 0, len(s.order))
	for _, fp := range s.order {
		summaries = append(summaries, s.caches[fp].Summary())
	}
	return summaries
}

// CacheForProfile returns the cache matching p, creating and registering one if none does
func (s *Store) CacheForProfile(p model.Profile) (*Cache, error) {
	if p.PlayerID == "" && p.Name == "" && !p.IsDefault {
		return nil, model.ErrInvalidName
	}

	if p.Name == "" {
		if p.IsDefault {
			p.Name = model.DefaultProfileName
		} else {
			p.Name = string(p.PlayerID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.findLocked(p); c != nil {
		return c, nil
	}

	var fp model.Fingerprint
	switch {
	case p.PlayerID != "":
		fp = model.PlayerFingerprint(p.PlayerID)
		p.IsDefault = false
	case p.IsDefault:
		fp = model.DefaultFingerprint()
	default:
		fp = model.LocalFingerprint(uuid.NewString())
	}
	if c, ok := s.caches[fp]; ok {
		return c, nil
	}

	c := newCache(s, fp, p, s.clock.Now())
	s.register(c)
	s.logger.Info("created profile",
		slog.String("fingerprint", string(fp)),
		slog.String("player_id", string(p.PlayerID)),
		slog.String("name", p.Name),
	)
	s.events.Publish(events.Event{Type: events.ProfileCreated, Fingerprint: fp})
	return c, nil
}

// DefaultCache returns the fallback cache used when no remote identity is available
func (s *Store) DefaultCache() *Cache {
	c, _ := s.CacheForProfile(model.Profile{Name: model.DefaultProfileName, IsDefault: true})
	return c
}

// Lookup returns the resident cache with the given fingerprint
func (s *Store) Lookup(fp model.Fingerprint) (*Cache, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.caches[fp]
	return c, ok
}

// RemoveProfile removes the cache matching p from the store and from storage
func (s *Store) RemoveProfile(ctx context.Context, p model.Profile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findLocked(p)
	if c == nil {
		return false, model.ErrProfileNotFound
	}
	return s.removeLocked(ctx, c)
}

// Save persists c. Only resident caches can be saved.
func (s *Store) Save(ctx context.Context, c *Cache) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.caches[c.fingerprint] != c {
		return model.ErrProfileNotFound
	}

	snap, revision := c.snapshot()
	if err := s.storage.SaveSnapshot(ctx, snap); err != nil {
		return err
	}
	c.markSaved(revision)
	return nil
}

// SaveAll persists every dirty cache
func (s *Store) SaveAll(ctx context.Context) error {
	s.mu.RLock()
	dirty := make([]*Cache, 0, len(s.order))
	for _, fp := range s.order {
		if c := s.caches[fp]; c.Dirty() {
			dirty = append(dirty, c)
		}
	}
	s.mu.RUnlock()

	var errs []error
	for _, c := range dirty {
		if err := s.Save(ctx, c); err != nil {
			s.logger.Error("failed to save profile",
				slog.String("fingerprint", string(c.fingerprint)),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) rename(c *Cache, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if other := s.findLocked(model.Profile{Name: name}); other != nil && other != c {
		return false, model.ErrNameInUse
	}
	return c.rename(name), nil
}

func (s *Store) remove(ctx context.Context, c *Cache) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caches[c.fingerprint] != c {
		return false, model.ErrProfileNotFound
	}
	return s.removeLocked(ctx, c)
}

func (s *Store) removeLocked(ctx context.Context, c *Cache) (bool, error) {
	if s.guard != nil && s.guard.InUse(c.fingerprint) {
		return false, model.ErrProfileInUse
	}
	if err := s.storage.DeleteSnapshot(ctx, c.fingerprint); err != nil {
		return false, err
	}

	delete(s.caches, c.fingerprint)
	for i, fp := range s.order {
		if fp == c.fingerprint {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Info("removed profile", slog.String("fingerprint", string(c.fingerprint)))
	s.events.Publish(events.Event{Type: events.ProfileRemoved, Fingerprint: c.fingerprint})
	return true, nil
}

func (s *Store) publish(e events.Event) {
	s.mu.RLock()
	p := s.events
	s.mu.RUnlock()
	p.Publish(e)
}

func (s *Store) findLocked(p model.Profile) *Cache {
	for _, fp := range s.order {
		if c := s.caches[fp]; c.IsEqualToProfile(p) {
			return c
		}
	}
	return nil
}

func (s *Store) register(c *Cache) {
	s.caches[c.fingerprint] = c
	s.order = append(s.order, c.fingerprint)
}
