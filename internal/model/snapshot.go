package model

import (
	"maps"
	"time"
)

// Snapshot is the persisted form of a cached profile.
// Acked* hold the last values the remote service is known to have.
type Snapshot struct {
	Fingerprint       Fingerprint            `json:"fingerprint"`
	PlayerID          PlayerID               `json:"player_id,omitempty"`
	ProfileName       string                 `json:"profile_name"`
	IsDefault         bool                   `json:"is_default,omitempty"`
	Scores            map[string]float64     `json:"scores,omitempty"`
	Achievements      map[string]Achievement `json:"achievements,omitempty"`
	AckedScores       map[string]float64     `json:"acked_scores,omitempty"`
	AckedAchievements map[string]Achievement `json:"acked_achievements,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	SyncedAt          time.Time              `json:"synced_at,omitzero"`
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Scores = maps.Clone(s.Scores)
	c.Achievements = maps.Clone(s.Achievements)
	c.AckedScores = maps.Clone(s.AckedScores)
	c.AckedAchievements = maps.Clone(s.AckedAchievements)
	return &c
}

// Profile returns the identity attributes stored in the snapshot
func (s *Snapshot) Profile() Profile {
	return Profile{
		PlayerID:  s.PlayerID,
		Name:      s.ProfileName,
		IsDefault: s.IsDefault,
	}
}
