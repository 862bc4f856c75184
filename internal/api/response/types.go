package response

import (
	"time"

	"github.com/mcoot/gccache/internal/model"
)

// Profile represents a cached profile in API responses
type Profile struct {
	Fingerprint     string     `json:"fingerprint"`
	PlayerID        string     `json:"player_id,omitempty"`
	ProfileName     string     `json:"profile_name"`
	IsLocal         bool       `json:"is_local"`
	IsDefault       bool       `json:"is_default"`
	IsConnected     bool       `json:"is_connected"`
	IsActive        bool       `json:"is_active"`
	IsAuthenticated bool       `json:"is_authenticated"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	SyncedAt        *time.Time `json:"synced_at,omitempty"`
}

// ProfileFromSummary converts a model.ProfileSummary. active and authenticated
// are the fingerprints currently held by the session.
func ProfileFromSummary(s model.ProfileSummary, active, authenticated model.Fingerprint) Profile {
	var synced *time.Time
	if !s.SyncedAt.IsZero() {
		t := s.SyncedAt
		synced = &t
	}
	return Profile{
		Fingerprint:     string(s.Fingerprint),
		PlayerID:        string(s.PlayerID),
		ProfileName:     s.ProfileName,
		IsLocal:         s.IsLocal,
		IsDefault:       s.IsDefault,
		IsConnected:     s.IsConnected,
		IsActive:        s.Fingerprint == active,
		IsAuthenticated: s.Fingerprint == authenticated,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		SyncedAt:        synced,
	}
}

// ProfileList is the response for listing profiles
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// Achievement is one achievement's cached state
type Achievement struct {
	Progress float64 `json:"progress"`
	Unlocked bool    `json:"unlocked"`
}

// AchievementsFromModel converts an achievement map
func AchievementsFromModel(m map[string]model.Achievement) map[string]Achievement {
	out := make(map[string]Achievement, len(m))
	for id, a := range m {
		out[id] = Achievement{Progress: a.Progress, Unlocked: a.Unlocked}
	}
	return out
}

// ProfileDetail is a profile with its cached scores and achievements
type ProfileDetail struct {
	Profile      Profile                `json:"profile"`
	Dirty        bool                   `json:"dirty"`
	Scores       map[string]float64     `json:"scores"`
	Achievements map[string]Achievement `json:"achievements"`
}

// Scores is the response for listing a profile's scores
type Scores struct {
	Scores map[string]float64 `json:"scores"`
}

// Achievements is the response for listing a profile's achievements
type Achievements struct {
	Achievements map[string]Achievement `json:"achievements"`
}

// Changed reports whether a write modified the cache
type Changed struct {
	Changed bool `json:"changed"`
}

// Removed reports whether a profile was removed
type Removed struct {
	Removed bool `json:"removed"`
}

// AchievementCatalog lists the registered achievement IDs
type AchievementCatalog struct {
	Achievements []string `json:"achievements"`
}

// Leaderboard is a registered leaderboard
type Leaderboard struct {
	ID    string `json:"id"`
	Order string `json:"order"`
}

// LeaderboardCatalog lists the registered leaderboards
type LeaderboardCatalog struct {
	Leaderboards []Leaderboard `json:"leaderboards"`
}

// LeaderboardsFromModel converts registered leaderboards
func LeaderboardsFromModel(boards []model.Leaderboard) LeaderboardCatalog {
	out := make([]Leaderboard, len(boards))
	for i, lb := range boards {
		out[i] = Leaderboard{ID: lb.ID, Order: string(lb.Order)}
	}
	return LeaderboardCatalog{Leaderboards: out}
}

// Session is the remote session state
type Session struct {
	State         string   `json:"state"`
	Active        *Profile `json:"active"`
	Authenticated *Profile `json:"authenticated"`
}

// Health is the response for the health endpoint
type Health struct {
	Status   string `json:"status"`
	Profiles int    `json:"profiles"`
	Session  string `json:"session"`
}
