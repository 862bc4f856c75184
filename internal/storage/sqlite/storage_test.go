package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gccache/internal/model"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "gccache.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	s.NoError(s.storage.Close())
}

func newSnapshot(id model.PlayerID, created time.Time) *model.Snapshot {
	return &model.Snapshot{
		Fingerprint:  model.PlayerFingerprint(id),
		PlayerID:     id,
		ProfileName:  "Alice",
		Scores:       map[string]float64{"hiscore": 100, "fastest": 12.5},
		Achievements: map[string]model.Achievement{"explorer": {Progress: 40}},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func (s *StorageSuite) TestSaveAndGetSnapshot() {
	snap := newSnapshot("G:1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	err := s.storage.SaveSnapshot(s.ctx, snap)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)
	s.Equal(snap.ProfileName, retrieved.ProfileName)
	s.Equal(snap.Scores, retrieved.Scores)
	s.Equal(snap.Achievements, retrieved.Achievements)
}

func (s *StorageSuite) TestGetSnapshotNotFound() {
	_, err := s.storage.GetSnapshot(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSaveUpserts() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	snap.ProfileName = "Bob"
	snap.Scores["hiscore"] = 150
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, snap))

	snaps, err := s.storage.ListSnapshots(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(snaps, 1)
	s.Equal("Bob", snaps[0].ProfileName)
	s.Equal(150.0, snaps[0].Scores["hiscore"])
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

func (s *StorageSuite) TestDeleteSnapshot() {
	snap := newSnapshot("G:1", time.Now())
	_ = s.storage.SaveSnapshot(s.ctx, snap)

	s.Require().NoError(s.storage.DeleteSnapshot(s.ctx, snap.Fingerprint))

	_, err := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSnapshotsSurviveReopen() {
	snap := newSnapshot("G:1", time.Now())
	s.Require().NoError(s.storage.SaveSnapshot(s.ctx, snap))
	s.Require().NoError(s.storage.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	retrieved, err := s.storage.GetSnapshot(s.ctx, snap.Fingerprint)
	s.Require().NoError(err)
	s.Equal(100.0, retrieved.Scores["hiscore"])
}

func (s *StorageSuite) TestMigrationsAppliedOnce() {
	s.Require().NoError(s.storage.Close())
	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	var count int
	err = s.storage.sqlDB.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM `+migrationTable).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestUpSection(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"up and down", "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;", "\nCREATE TABLE a (x);\n"},
		{"up only", "-- +migrate Up\nCREATE TABLE a (x);", "\nCREATE TABLE a (x);"},
		{"no markers", "CREATE TABLE a (x);", "CREATE TABLE a (x);"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, upSection(tc.content))
		})
	}
}
