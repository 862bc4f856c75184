package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileInUse    = errors.New("profile is active or authenticated")
	ErrInvalidName     = errors.New("profile name must not be empty")
	ErrNameInUse       = errors.New("profile name already in use")

	// Validation errors
	ErrUnknownLeaderboard = errors.New("leaderboard is not registered")
	ErrUnknownAchievement = errors.New("achievement is not registered")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrInvalidScore       = errors.New("score must be a finite number")

	// Session errors
	ErrNotConnected     = errors.New("profile has no live remote session")
	ErrNotAuthenticated = errors.New("no authenticated profile")
	ErrLaunchCancelled  = errors.New("launch cancelled by shutdown")
)
