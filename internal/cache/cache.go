package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"sync"
	"time"

	"github.com/mcoot/gccache/internal/events"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/reconcile"
)

// Cache is one player's locally cached identity, scores and achievement progress.
// Reads and writes are served locally; the remote service is reconciled on Synchronize.
type Cache struct {
	store       *Store
	fingerprint model.Fingerprint

	mu        sync.RWMutex
	playerID  model.PlayerID
	name      string
	isDefault bool
	connected bool

	// revision increments on every mutation so a save only clears the
	// dirty flag if nothing changed while it was in flight
	dirty    bool
	revision uint64

	local reconcile.State
	acked reconcile.State

	createdAt time.Time
	updatedAt time.Time
	syncedAt  time.Time
}

func newCache(store *Store, fp model.Fingerprint, p model.Profile, now time.Time) *Cache {
	return &Cache{
		store:       store,
		fingerprint: fp,
		playerID:    p.PlayerID,
		name:        p.Name,
		isDefault:   p.IsDefault,
		dirty:       true,
		local:       reconcile.NewState(),
		acked:       reconcile.NewState(),
		createdAt:   now,
		updatedAt:   now,
	}
}

func newCacheFromSnapshot(store *Store, snap *model.Snapshot) *Cache {
	return &Cache{
		store:       store,
		fingerprint: snap.Fingerprint,
		playerID:    snap.PlayerID,
		name:        snap.ProfileName,
		isDefault:   snap.IsDefault,
		local:       reconcile.State{Scores: snap.Scores, Achievements: snap.Achievements}.Clone(),
		acked:       reconcile.State{Scores: snap.AckedScores, Achievements: snap.AckedAchievements}.Clone(),
		createdAt:   snap.CreatedAt,
		updatedAt:   snap.UpdatedAt,
		syncedAt:    snap.SyncedAt,
	}
}

// Fingerprint returns the identity key of the cache
func (c *Cache) Fingerprint() model.Fingerprint {
	return c.fingerprint
}

// Profile returns the identity attributes of the cache
func (c *Cache) Profile() model.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.Profile{PlayerID: c.playerID, Name: c.name, IsDefault: c.isDefault}
}

// Summary returns a copy of the identity and display fields
func (c *Cache) Summary() model.ProfileSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.ProfileSummary{
		Fingerprint: c.fingerprint,
		PlayerID:    c.playerID,
		ProfileName: c.name,
		IsLocal:     c.playerID == "",
		IsDefault:   c.isDefault,
		IsConnected: c.connected,
		CreatedAt:   c.createdAt,
		UpdatedAt:   c.updatedAt,
		SyncedAt:    c.syncedAt,
	}
}

// IsEqualToProfile reports whether p identifies this cache.
// Profiles with a player ID match on it alone; profiles without one match on name.
func (c *Cache) IsEqualToProfile(p model.Profile) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p.PlayerID != "" {
		return c.playerID == p.PlayerID
	}
	return c.name == p.Name
}

// IsConnected reports whether a live remote session backs this cache
func (c *Cache) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetConnected is maintained by the session manager on login and shutdown
func (c *Cache) SetConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
}

// Dirty reports whether the cache has changes not yet saved
func (c *Cache) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Rename changes the display name. It returns false without error if the
// name is unchanged, and fails with ErrNameInUse if another cache already
// answers to name.
func (c *Cache) Rename(name string) (bool, error) {
	if name == "" {
		return false, model.ErrInvalidName
	}
	return c.store.rename(c, name)
}

func (c *Cache) rename(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.name == name {
		return false
	}
	c.name = name
	c.touch()
	return true
}

// SubmitScore records a score on a registered leaderboard.
// It returns true if the stored best score changed.
func (c *Cache) SubmitScore(score float64, board string) (bool, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false, model.ErrInvalidScore
	}
	lb, ok := c.store.catalog.Leaderboard(board)
	if !ok {
		return false, model.ErrUnknownLeaderboard
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.local.Scores[board]
	if ok && !lb.Order.Better(score, cur) {
		return false, nil
	}
	c.local.Scores[board] = score
	c.touch()
	return true, nil
}

// Score returns the best stored score for a leaderboard
func (c *Cache) Score(board string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.local.Scores[board]
	return score, ok
}

// AllScores returns every stored score, including leaderboards no longer registered
func (c *Cache) AllScores() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.local.Scores)
}

// UnlockAchievement completes a registered achievement.
// It returns false without error if the achievement was already unlocked.
func (c *Cache) UnlockAchievement(id string) (bool, error) {
	if !c.store.catalog.HasAchievement(id) {
		return false, model.ErrUnknownAchievement
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.local.Achievements[id].Unlocked {
		return false, nil
	}
	c.local.Achievements[id] = model.Achievement{Progress: model.MaxProgress, Unlocked: true}
	c.touch()
	return true, nil
}

// IsUnlocked reports whether an achievement is unlocked
func (c *Cache) IsUnlocked(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.local.Achievements[id].Unlocked
}

// SubmitProgress raises the progress of a registered achievement.
// Lower progress than stored is a no-op; reaching 100 unlocks.
func (c *Cache) SubmitProgress(progress float64, id string) (bool, error) {
	if !c.store.catalog.HasAchievement(id) {
		return false, model.ErrUnknownAchievement
	}
	if !model.ValidProgress(progress) {
		return false, model.ErrInvalidProgress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.local.Achievements[id]
	merged := reconcile.MergeAchievement(cur, model.Achievement{Progress: progress})
	if merged == cur {
		return false, nil
	}
	c.local.Achievements[id] = merged
	c.touch()
	return true, nil
}

// Progress returns the stored progress of an achievement, 0 if never submitted
func (c *Cache) Progress(id string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.local.Achievements[id].Progress
}

// AllAchievements returns every stored achievement state
func (c *Cache) AllAchievements() map[string]model.Achievement {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.local.Achievements)
}

// Reset clears all scores and achievements, keeping the identity
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.local = reconcile.NewState()
	c.acked = reconcile.NewState()
	c.syncedAt = time.Time{}
	c.touch()
}

// Save persists the cache
func (c *Cache) Save(ctx context.Context) error {
	return c.store.Save(ctx, c)
}

// Remove deletes the cache from the store and from storage.
// It fails with ErrProfileInUse while the cache is active or authenticated.
func (c *Cache) Remove(ctx context.Context) (bool, error) {
	return c.store.remove(ctx, c)
}

// Synchronize pulls remote values into the cache, pushes values the remote
// service has not acknowledged, and saves the result.
// Submission failures do not stop the pass; they are returned joined.
func (c *Cache) Synchronize(ctx context.Context) error {
	c.mu.RLock()
	connected, player := c.connected, c.playerID
	c.mu.RUnlock()
	if !connected || player == "" {
		return model.ErrNotConnected
	}

	svc := c.store.remote
	order := c.store.catalog.Order
	logger := c.store.logger.With(slog.String("fingerprint", string(c.fingerprint)))

	scores, err := svc.FetchScores(ctx, player)
	if err != nil {
		return fmt.Errorf("fetch scores: %w", err)
	}
	achievements, err := svc.FetchAchievements(ctx, player)
	if err != nil {
		return fmt.Errorf("fetch achievements: %w", err)
	}

	c.mu.Lock()
	changes := reconcile.Pull(&c.local, &c.acked, reconcile.State{Scores: scores, Achievements: achievements}, order)
	if changes.Empty() {
		c.bump()
	} else {
		c.touch()
	}
	c.syncedAt = c.store.clock.Now()
	subs := reconcile.Push(c.local, c.acked, order)
	c.mu.Unlock()

	var errs []error
	pushed := 0
	for _, sub := range subs {
		var err error
		if sub.Board != "" {
			err = svc.SubmitScore(ctx, player, sub.Board, sub.Value)
		} else {
			err = svc.SubmitAchievement(ctx, player, sub.Achievement, sub.Value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("submit %s: %w", sub.Board+sub.Achievement, err))
			continue
		}
		pushed++

		c.mu.Lock()
		reconcile.Acknowledge(&c.acked, sub, order)
		c.bump()
		c.mu.Unlock()
	}

	logger.Info("synchronized profile",
		slog.Int("pulled_scores", len(changes.Scores)),
		slog.Int("pulled_achievements", len(changes.Achievements)),
		slog.Int("pushed", pushed),
		slog.Int("failed", len(errs)),
	)

	if err := c.Save(ctx); err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	event := events.Event{Type: events.ProfileSynced, Fingerprint: c.fingerprint}
	if err != nil {
		event.Error = err.Error()
	}
	c.store.publish(event)
	return err
}

// Snapshot returns the persisted form of the cache
func (c *Cache) Snapshot() *model.Snapshot {
	snap, _ := c.snapshot()
	return snap
}

func (c *Cache) snapshot() (*model.Snapshot, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &model.Snapshot{
		Fingerprint:       c.fingerprint,
		PlayerID:          c.playerID,
		ProfileName:       c.name,
		IsDefault:         c.isDefault,
		Scores:            maps.Clone(c.local.Scores),
		Achievements:      maps.Clone(c.local.Achievements),
		AckedScores:       maps.Clone(c.acked.Scores),
		AckedAchievements: maps.Clone(c.acked.Achievements),
		CreatedAt:         c.createdAt,
		UpdatedAt:         c.updatedAt,
		SyncedAt:          c.syncedAt,
	}, c.revision
}

func (c *Cache) markSaved(revision uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revision == revision {
		c.dirty = false
	}
}

// touch records a change to gameplay-visible state. Caller holds c.mu.
func (c *Cache) touch() {
	c.bump()
	c.updatedAt = c.store.clock.Now()
}

// bump records a change that must be persisted. Caller holds c.mu.
func (c *Cache) bump() {
	c.revision++
	c.dirty = true
}
