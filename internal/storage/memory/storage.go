package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	snapshots map[model.Fingerprint]*model.Snapshot
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots: make(map[model.Fingerprint]*model.Snapshot),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.Fingerprint] = snap.Clone()
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, fp model.Fingerprint) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[fp]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return snap.Clone(), nil
}

// ListSnapshots returns all snapshots ordered by creation time
func (s *Storage) ListSnapshots(ctx context.Context) ([]*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := make([]*model.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		snaps = append(snaps, snap.Clone())
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].Fingerprint < snaps[j].Fingerprint
		}
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, fp model.Fingerprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, fp)
	return nil
}

// Len returns the number of stored snapshots
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}
