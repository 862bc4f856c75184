package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/storage"
	"github.com/mcoot/gccache/internal/storage/sqlite/migrations"
)

// Storage is an on-disk SQLite implementation of the storage interface.
// It suits a single device where a game keeps its cache next to its saves.
type Storage struct {
	sqlDB *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens the database at path and applies the embedded migrations
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Storage{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection
func (s *Storage) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Storage) SaveSnapshot(ctx context.Context, snap *model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO profile_snapshots (fingerprint, payload_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
		    payload_json = excluded.payload_json,
		    updated_at = excluded.updated_at`,
		string(snap.Fingerprint),
		payload,
		snap.CreatedAt.UnixMilli(),
		snap.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (s *Storage) GetSnapshot(ctx context.Context, fp model.Fingerprint) (*model.Snapshot, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload_json FROM profile_snapshots WHERE fingerprint = ?`,
		string(fp),
	)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return decodeSnapshot(payload)
}

// ListSnapshots returns all snapshots ordered by creation time
func (s *Storage) ListSnapshots(ctx context.Context) ([]*model.Snapshot, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT payload_json FROM profile_snapshots ORDER BY created_at, fingerprint`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	snaps := make([]*model.Snapshot, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(payload)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, fp model.Fingerprint) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM profile_snapshots WHERE fingerprint = ?`, string(fp)); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(payload []byte) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
