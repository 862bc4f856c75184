package model

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// PlayerID is the stable identifier the remote service assigns to a player
type PlayerID string

// Fingerprint is the identity key of a cached profile.
// It is also the key under which the profile snapshot is persisted.
type Fingerprint string

// Fingerprint kinds
const (
	fingerprintPlayer  = "player"
	fingerprintLocal   = "local"
	fingerprintDefault = "default"
)

// DefaultProfileName is the display name given to the fallback profile
const DefaultProfileName = "Default"

// Profile carries the attributes a profile is identified by.
// A profile without a PlayerID has never been confirmed by the remote service.
type Profile struct {
	PlayerID  PlayerID
	Name      string
	IsDefault bool
}

// IsLocal reports whether the profile lacks a remote identity
func (p Profile) IsLocal() bool {
	return p.PlayerID == ""
}

// ProfileSummary is a read-only copy of a cached profile's identity and display fields
type ProfileSummary struct {
	Fingerprint Fingerprint
	PlayerID    PlayerID
	ProfileName string
	IsLocal     bool
	IsDefault   bool
	IsConnected bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SyncedAt    time.Time
}

// PlayerFingerprint returns the deterministic fingerprint of a remote player
func PlayerFingerprint(id PlayerID) Fingerprint {
	return fingerprintFor(fingerprintPlayer, string(id))
}

// LocalFingerprint returns the fingerprint of a local profile created under the given key.
// Local keys are generated once at creation and persisted with the snapshot.
func LocalFingerprint(key string) Fingerprint {
	return fingerprintFor(fingerprintLocal, key)
}

// DefaultFingerprint returns the fingerprint of the fallback profile
func DefaultFingerprint() Fingerprint {
	return fingerprintFor(fingerprintDefault, DefaultProfileName)
}

func fingerprintFor(kind, value string) Fingerprint {
	sum := blake2b.Sum256([]byte(kind + ":" + value))
	return Fingerprint(hex.EncodeToString(sum[:16]))
}
