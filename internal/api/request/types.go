package request

// CreateProfileRequest is the request body for getting or creating a profile.
// A profile without a player ID is local.
type CreateProfileRequest struct {
	PlayerID  string `json:"player_id,omitempty"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// RenameProfileRequest is the request body for renaming a profile
type RenameProfileRequest struct {
	Name string `json:"name"`
}

// SubmitScoreRequest is the request body for submitting a score
type SubmitScoreRequest struct {
	Leaderboard string   `json:"leaderboard"`
	Score       *float64 `json:"score"`
}

// SubmitProgressRequest is the request body for submitting achievement progress
type SubmitProgressRequest struct {
	Progress *float64 `json:"progress"`
}

// RegisterAchievementsRequest replaces the achievement catalog
type RegisterAchievementsRequest struct {
	Achievements []string `json:"achievements"`
}

// Leaderboard is one leaderboard definition; order is "desc" (default) or "asc"
type Leaderboard struct {
	ID    string `json:"id"`
	Order string `json:"order,omitempty"`
}

// RegisterLeaderboardsRequest replaces the leaderboard catalog
type RegisterLeaderboardsRequest struct {
	Leaderboards []Leaderboard `json:"leaderboards"`
}

// ActivateRequest is the request body for activating a profile
type ActivateRequest struct {
	Fingerprint string `json:"fingerprint"`
}
