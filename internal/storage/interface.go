package storage

import (
	"context"

	"github.com/mcoot/gccache/internal/model"
)

// Storage defines the interface for profile snapshot persistence.
// Snapshots are opaque to the backend and keyed by fingerprint.
type Storage interface {
	SaveSnapshot(ctx context.Context, snap *model.Snapshot) error
	GetSnapshot(ctx context.Context, fp model.Fingerprint) (*model.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]*model.Snapshot, error)
	DeleteSnapshot(ctx context.Context, fp model.Fingerprint) error
}
