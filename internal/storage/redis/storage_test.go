package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gccache/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func newSnapshot(id model.PlayerID, created time.Time) *model.Snapshot {
	return &model.Snapshot{
		Fingerprint:       model.PlayerFingerprint(id),
		PlayerID:          id,
		ProfileName:       "Alice",
		Scores:            map[string]float64{"hiscore": 100},
		Achievements:      map[string]model.Achievement{"explorer": {Progress: 100, Unlocked: true}},
		AckedScores:       map[string]float64{"hiscore": 90},
		AckedAchievements: map[string]model.Achievement{"explorer": {Progress: 50}},
		CreatedAt:         created,
		UpdatedAt:         created,
	}
}

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := newSnapshot("G:1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	err := s.storage.SaveSnapshot(s.ctx, snap)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)
	s.Equal(snap.PlayerID, retrieved.PlayerID)
	s.Equal(snap.Scores, retrieved.Scores)
	s.Equal(snap.Achievements, retrieved.Achievements)
	s.Equal(snap.AckedScores, retrieved.AckedScores)
	s.True(snap.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestSaveUsesPrefixedKeys() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	s.True(s.mini.Exists("gccache:profile:" + string(snap.Fingerprint)))
	members, err := s.mini.SMembers("gccache:idx:profiles")
	s.Require().NoError(err)
	s.Len(members, 1)
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestGetSnapshotCorrupt() {
	s.Require().NoError(s.mini.Set("gccache:profile:broken", "{not json"))

	_, err := s.storage.GetSnapshot(s.ctx, "broken")
	s.Error(err)
	s.NotErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestListSnapshotsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveSnapshot(s.ctx, newSnapshot("G:2", base.Add(time.Hour)))
	_ = s.storage.SaveSnapshot(s.ctx, newSnapshot("G:1", base))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snaps, 2)
	s.Equal(model.PlayerID("G:1"), snaps[0].PlayerID)
	s.Equal(model.PlayerID("G:2"), snaps[1].PlayerID)
}

func (s *StorageSuite) TestListSnapshotsEmpty() {
	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Empty(snaps)
}

func (s *StorageSuite) TestListSnapshotsSkipsDanglingIndexEntries() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)
	s.mini.Del("gccache:profile:" + string(snap.Fingerprint))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Empty(snaps)
}

func (s *StorageSuite) TestDeleteSnapshot() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	err := s.storage.DeleteSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)

	_, err = s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.ErrorIs(err, model.ErrProfileNotFound)

	snaps, _ := s.storage.ListSnapshots(s.ctx)
	s.Empty(snaps)
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	other := NewWithClient(client, cfg)
	defer func() { _ = other.Close() }()

	snap := newSnapshot("G:1", time.Now())
	_ = other.SaveSnapshot(s.ctx, snap)

	s.True(s.mini.Exists("other:profile:" + string(snap.Fingerprint)))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Empty(snaps)
}
