package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gccache/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newSnapshot(id model.PlayerID, created time.Time) *model.Snapshot {
	return &model.Snapshot{
		Fingerprint:  model.PlayerFingerprint(id),
		PlayerID:     id,
		ProfileName:  "Alice",
		Scores:       map[string]float64{"hiscore": 100},
		Achievements: map[string]model.Achievement{"explorer": {Progress: 40}},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := newSnapshot("G:1", time.Now())

	err := s.storage.SaveSnapshot(s.ctx, snap)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)
	s.Equal(snap.PlayerID, retrieved.PlayerID)
	s.Equal(100.0, retrieved.Scores["hiscore"])
	s.Equal(40.0, retrieved.Achievements["explorer"].Progress)
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSavedSnapshotIsIsolatedFromCaller() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	snap.Scores["hiscore"] = 1

	retrieved, _ := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Equal(100.0, retrieved.Scores["hiscore"])
}

func (s *StorageSuite) TestSaveOverwrites() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	snap.ProfileName = "Bob"
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	retrieved, _ := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Equal("Bob", retrieved.ProfileName)
	s.Equal(1, s.storage.Len())
}

func (s *StorageSuite) TestListSnapshotsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveSnapshot(s.ctx, newSnapshot("G:2", base.Add(time.Minute)))
	_ = s.storage.SaveSnapshot(s.ctx, newSnapshot("G:1", base))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snaps, 2)
	s.Equal(model.PlayerID("G:1"), snaps[0].PlayerID)
	s.Equal(model.PlayerID("G:2"), snaps[1].PlayerID)
}

func (s *StorageSuite) TestDeleteSnapshot() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	err := s.storage.DeleteSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)

	_, err = s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestDeleteMissingSnapshotIsNoop() {
	s.NoError(s.storage.DeleteSnapshot(s.ctx, "nonexistent"))
}
