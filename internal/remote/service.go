// Package remote defines the social-gaming service the cache reconciles against.
package remote

import (
	"context"
	"errors"

	"github.com/mcoot/gccache/internal/model"
)

var (
	// ErrUnavailable means the service could not be reached or failed to answer
	ErrUnavailable = errors.New("remote service unavailable")
	// ErrNotAuthenticated means the service rejected the player's credentials
	ErrNotAuthenticated = errors.New("remote service rejected credentials")
)

// Service is the remote collaborator. Every call after Authenticate is scoped
// to the player identity it returned.
type Service interface {
	// Authenticate logs the local player in and returns their remote identity
	Authenticate(ctx context.Context) (model.Profile, error)

	SubmitScore(ctx context.Context, player model.PlayerID, board string, score float64) error
	SubmitAchievement(ctx context.Context, player model.PlayerID, id string, progress float64) error

	FetchScores(ctx context.Context, player model.PlayerID) (map[string]float64, error)
	FetchAchievements(ctx context.Context, player model.PlayerID) (map[string]model.Achievement, error)

	// Close tears down the session. It is safe to call without a prior login.
	Close(ctx context.Context) error
}

// Unavailable is a Service for devices with no remote service configured.
// Login always fails, so the cache runs purely offline.
type Unavailable struct{}

var _ Service = Unavailable{}

func (Unavailable) Authenticate(context.Context) (model.Profile, error) {
	return model.Profile{}, ErrUnavailable
}

func (Unavailable) SubmitScore(context.Context, model.PlayerID, string, float64) error {
	return ErrUnavailable
}

func (Unavailable) SubmitAchievement(context.Context, model.PlayerID, string, float64) error {
	return ErrUnavailable
}

func (Unavailable) FetchScores(context.Context, model.PlayerID) (map[string]float64, error) {
	return nil, ErrUnavailable
}

func (Unavailable) FetchAchievements(context.Context, model.PlayerID) (map[string]model.Achievement, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Close(context.Context) error {
	return nil
}
