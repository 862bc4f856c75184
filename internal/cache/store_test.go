package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gccache/internal/catalog"
	"github.com/mcoot/gccache/internal/dependencies/mocks"
	"github.com/mcoot/gccache/internal/events"
	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
	"github.com/mcoot/gccache/internal/storage/memory"
	"github.com/mcoot/gccache/internal/testutil"
)

type fakeGuard map[model.Fingerprint]bool

func (g fakeGuard) InUse(fp model.Fingerprint) bool {
	return g[fp]
}

type failingStorage struct {
	*memory.Storage
	err error
}

func (f *failingStorage) DeleteSnapshot(context.Context, model.Fingerprint) error {
	return f.err
}

type failingSaveStorage struct {
	*memory.Storage
	failFor model.Fingerprint
	err     error
}

func (f *failingSaveStorage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	if snap.Fingerprint == f.failFor {
		return f.err
	}
	return f.Storage.SaveSnapshot(ctx, snap)
}

type eventLog []events.Event

func (l *eventLog) Publish(e events.Event) {
	*l = append(*l, e)
}

type StoreSuite struct {
	suite.Suite
	storage *memory.Storage
	catalog *catalog.Registry
	clock   *mocks.MockClock
	guard   fakeGuard
	store   *Store
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.storage = memory.New()
	s.catalog = catalog.New()
	s.catalog.RegisterLeaderboards([]model.Leaderboard{{ID: "hiscore"}})
	s.catalog.RegisterAchievements([]string{"explorer"})
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.guard = fakeGuard{}
	s.store = s.newStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) newStore() *Store {
	store := NewStore(s.storage, s.catalog, remote.Unavailable{}, s.clock, testutil.NopLogger())
	store.SetGuard(s.guard)
	return store
}

// CacheForProfile tests

func (s *StoreSuite) TestCacheForProfileIsStable() {
	profiles := []model.Profile{
		{PlayerID: "G:1", Name: "Alice"},
		{Name: "Guest"},
		{Name: model.DefaultProfileName, IsDefault: true},
	}

	for _, p := range profiles {
		first, err := s.store.CacheForProfile(p)
		s.Require().NoError(err)
		second, err := s.store.CacheForProfile(p)
		s.Require().NoError(err)
		s.Same(first, second)
	}
	s.Len(s.store.CachedProfiles(), 3)
}

func (s *StoreSuite) TestCacheForProfileUsesPlayerFingerprint() {
	c, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	s.Equal(model.PlayerFingerprint("G:1"), c.Fingerprint())
}

func (s *StoreSuite) TestLocalProfilesGetDistinctFingerprints() {
	a, _ := s.store.CacheForProfile(model.Profile{Name: "Guest A"})
	b, _ := s.store.CacheForProfile(model.Profile{Name: "Guest B"})
	s.NotEqual(a.Fingerprint(), b.Fingerprint())
}

func (s *StoreSuite) TestSamePlayerDifferentNameReturnsExisting() {
	first, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	_, _ = first.Rename("Ally")

	second, err := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	s.Require().NoError(err)
	s.Same(first, second)
	s.Equal("Ally", second.Summary().ProfileName)
}

func (s *StoreSuite) TestCacheForProfileRejectsEmptyProfile() {
	c, err := s.store.CacheForProfile(model.Profile{})
	s.ErrorIs(err, model.ErrInvalidName)
	s.Nil(c)
	s.Empty(s.store.CachedProfiles())
}

func (s *StoreSuite) TestRemoteProfileWithoutNameIsNamedByID() {
	c, err := s.store.CacheForProfile(model.Profile{PlayerID: "G:7"})
	s.Require().NoError(err)
	s.Equal("G:7", c.Summary().ProfileName)
}

func (s *StoreSuite) TestDefaultCache() {
	c := s.store.DefaultCache()
	summary := c.Summary()
	s.True(summary.IsDefault)
	s.True(summary.IsLocal)
	s.Equal(model.DefaultProfileName, summary.ProfileName)
	s.Equal(model.DefaultFingerprint(), c.Fingerprint())
	s.Same(c, s.store.DefaultCache())
}

func (s *StoreSuite) TestDefaultCacheMatchesByName() {
	local, _ := s.store.CacheForProfile(model.Profile{Name: model.DefaultProfileName})
	s.Same(local, s.store.DefaultCache())
	s.Len(s.store.CachedProfiles(), 1)
}

func (s *StoreSuite) TestRenamedDefaultCacheIsStillDefault() {
	c := s.store.DefaultCache()
	_, err := c.Rename("Player One")
	s.Require().NoError(err)
	s.Same(c, s.store.DefaultCache())
}

func (s *StoreSuite) TestNameOnlyProfileMatchesRemoteProfile() {
	account, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})

	found, err := s.store.CacheForProfile(model.Profile{Name: "Alice"})
	s.Require().NoError(err)
	s.Same(account, found)
	s.Len(s.store.CachedProfiles(), 1)
}

// Rename tests

func (s *StoreSuite) TestRenameOntoTakenNameFails() {
	a, _ := s.store.CacheForProfile(model.Profile{Name: "Guest1"})
	b, _ := s.store.CacheForProfile(model.Profile{Name: "Guest2"})
	s.Require().NoError(s.store.SaveAll(s.ctx))

	changed, err := b.Rename("Guest1")
	s.ErrorIs(err, model.ErrNameInUse)
	s.False(changed)
	s.Equal("Guest2", b.Summary().ProfileName)
	s.False(b.Dirty())

	found, _ := s.store.CacheForProfile(model.Profile{Name: "Guest1"})
	s.Same(a, found)
	s.False(b.IsEqualToProfile(model.Profile{Name: "Guest1"}))
}

func (s *StoreSuite) TestRenameOntoRemoteProfileNameFails() {
	_, _ = s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	guest, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})

	changed, err := guest.Rename("Alice")
	s.ErrorIs(err, model.ErrNameInUse)
	s.False(changed)
}

func (s *StoreSuite) TestRenameToOwnNameIsNoop() {
	c, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})

	changed, err := c.Rename("Guest")
	s.NoError(err)
	s.False(changed)
}

func (s *StoreSuite) TestNameFreedByRemovalCanBeReused() {
	a, _ := s.store.CacheForProfile(model.Profile{Name: "Guest1"})
	b, _ := s.store.CacheForProfile(model.Profile{Name: "Guest2"})
	_, err := a.Remove(s.ctx)
	s.Require().NoError(err)

	changed, err := b.Rename("Guest1")
	s.NoError(err)
	s.True(changed)
}

// CachedProfiles tests

func (s *StoreSuite) TestCachedProfilesInRegistrationOrder() {
	_, _ = s.store.CacheForProfile(model.Profile{PlayerID: "G:2", Name: "Bob"})
	_, _ = s.store.CacheForProfile(model.Profile{Name: "Guest"})
	_, _ = s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})

	profiles := s.store.CachedProfiles()
	s.Require().Len(profiles, 3)
	s.Equal("Bob", profiles[0].ProfileName)
	s.Equal("Guest", profiles[1].ProfileName)
	s.Equal("Alice", profiles[2].ProfileName)
}

func (s *StoreSuite) TestCachedProfilesAreCopies() {
	c, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})
	profiles := s.store.CachedProfiles()
	profiles[0].ProfileName = "Mutated"

	s.Equal("Guest", c.Summary().ProfileName)
}

// Load tests

func (s *StoreSuite) TestLoadRestoresSnapshots() {
	c, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	_, _ = c.SubmitScore(100, "hiscore")
	_, _ = c.SubmitProgress(40, "explorer")
	s.Require().NoError(c.Save(s.ctx))
	guest, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})
	s.Require().NoError(guest.Save(s.ctx))

	reloaded := s.newStore()
	s.Require().NoError(reloaded.Load(s.ctx))

	s.Len(reloaded.CachedProfiles(), 2)
	restored, err := reloaded.CacheForProfile(model.Profile{PlayerID: "G:1"})
	s.Require().NoError(err)
	s.Equal(c.Fingerprint(), restored.Fingerprint())
	s.Equal(map[string]float64{"hiscore": 100}, restored.AllScores())
	s.Equal(40.0, restored.Progress("explorer"))
	s.False(restored.Dirty())

	restoredGuest, _ := reloaded.CacheForProfile(model.Profile{Name: "Guest"})
	s.Equal(guest.Fingerprint(), restoredGuest.Fingerprint())
}

func (s *StoreSuite) TestLoadKeepsResidentInstance() {
	c, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	s.Require().NoError(c.Save(s.ctx))
	_, _ = c.SubmitScore(100, "hiscore")

	s.Require().NoError(s.store.Load(s.ctx))

	s.Len(s.store.CachedProfiles(), 1)
	found, _ := s.store.Lookup(c.Fingerprint())
	s.Same(c, found)
	score, _ := found.Score("hiscore")
	s.Equal(100.0, score)
}

// Remove tests

func (s *StoreSuite) TestRemoveProfile() {
	c, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})
	s.Require().NoError(c.Save(s.ctx))

	removed, err := s.store.RemoveProfile(s.ctx, model.Profile{Name: "Guest"})
	s.Require().NoError(err)
	s.True(removed)

	s.Empty(s.store.CachedProfiles())
	_, ok := s.store.Lookup(c.Fingerprint())
	s.False(ok)
	s.Equal(0, s.storage.Len())
}

func (s *StoreSuite) TestRemoveInUseProfileFails() {
	c, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	s.Require().NoError(c.Save(s.ctx))
	s.guard[c.Fingerprint()] = true

	removed, err := s.store.RemoveProfile(s.ctx, model.Profile{PlayerID: "G:1"})
	s.ErrorIs(err, model.ErrProfileInUse)
	s.False(removed)

	s.Len(s.store.CachedProfiles(), 1)
	s.Equal(1, s.storage.Len())
}

func (s *StoreSuite) TestRemoveUnknownProfile() {
	removed, err := s.store.RemoveProfile(s.ctx, model.Profile{PlayerID: "G:404"})
	s.ErrorIs(err, model.ErrProfileNotFound)
	s.False(removed)
}

func (s *StoreSuite) TestRemoveStorageFailureKeepsRegistry() {
	broken := &failingStorage{Storage: s.storage, err: errors.New("disk full")}
	store := NewStore(broken, s.catalog, remote.Unavailable{}, s.clock, testutil.NopLogger())
	_, _ = store.CacheForProfile(model.Profile{Name: "Guest"})

	removed, err := store.RemoveProfile(s.ctx, model.Profile{Name: "Guest"})
	s.Error(err)
	s.False(removed)
	s.Len(store.CachedProfiles(), 1)
}

func (s *StoreSuite) TestRemovedCacheCannotBeSaved() {
	c, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})

	removed, err := c.Remove(s.ctx)
	s.Require().NoError(err)
	s.True(removed)

	s.ErrorIs(c.Save(s.ctx), model.ErrProfileNotFound)
	removed, err = c.Remove(s.ctx)
	s.ErrorIs(err, model.ErrProfileNotFound)
	s.False(removed)
}

func (s *StoreSuite) TestRemoveThenRecreateGivesFreshCache() {
	c, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	_, _ = c.SubmitScore(100, "hiscore")
	_, _ = c.Remove(s.ctx)

	fresh, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	s.NotSame(c, fresh)
	s.Empty(fresh.AllScores())
}

// SaveAll tests

func (s *StoreSuite) TestSaveAllPersistsDirtyCaches() {
	a, _ := s.store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	b, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})

	s.Require().NoError(s.store.SaveAll(s.ctx))

	s.False(a.Dirty())
	s.False(b.Dirty())
	s.Equal(2, s.storage.Len())
}

func (s *StoreSuite) TestSaveAllContinuesPastFailures() {
	broken := &failingSaveStorage{Storage: s.storage, failFor: model.PlayerFingerprint("G:1"), err: errors.New("disk full")}
	store := NewStore(broken, s.catalog, remote.Unavailable{}, s.clock, testutil.NopLogger())
	a, _ := store.CacheForProfile(model.Profile{PlayerID: "G:1", Name: "Alice"})
	b, _ := store.CacheForProfile(model.Profile{Name: "Guest"})

	err := store.SaveAll(s.ctx)
	s.ErrorIs(err, broken.err)

	s.True(a.Dirty())
	s.False(b.Dirty())
	s.Equal(1, s.storage.Len())
}

// Event tests

func (s *StoreSuite) TestProfileChangesArePublished() {
	var log eventLog
	s.store.SetPublisher(&log)

	c, _ := s.store.CacheForProfile(model.Profile{Name: "Guest"})
	_, _ = s.store.CacheForProfile(model.Profile{Name: "Guest"})
	_, err := c.Remove(s.ctx)
	s.Require().NoError(err)

	s.Equal(eventLog{
		{Type: events.ProfileCreated, Fingerprint: c.Fingerprint()},
		{Type: events.ProfileRemoved, Fingerprint: c.Fingerprint()},
	}, log)
}
