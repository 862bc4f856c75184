// Package rest is a JSON-over-HTTP remote service adapter authenticated with
// OAuth2 bearer tokens.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/remote"
)

// Config holds REST adapter configuration
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns the default adapter configuration
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
	}
}

// Client talks to the remote service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure Client implements the interface
var _ remote.Service = (*Client)(nil)

// New creates a client that sends cfg.Token as a static bearer token
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("remote token is required")
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
	return NewWithTokenSource(cfg, src)
}

// NewWithTokenSource creates a client that draws bearer tokens from src
func NewWithTokenSource(cfg Config, src oauth2.TokenSource) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid remote base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	return &Client{
		baseURL:    base.String(),
		httpClient: oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, src)),
	}, nil
}

type meResponse struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type scoresResponse struct {
	Scores map[string]float64 `json:"scores"`
}

type achievementsResponse struct {
	Achievements map[string]model.Achievement `json:"achievements"`
}

type scoreRequest struct {
	Leaderboard string  `json:"leaderboard"`
	Score       float64 `json:"score"`
}

type achievementRequest struct {
	Achievement string  `json:"achievement"`
	Progress    float64 `json:"progress"`
}

func (c *Client) Authenticate(ctx context.Context) (model.Profile, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/v1/me", nil, &resp); err != nil {
		return model.Profile{}, err
	}
	if resp.PlayerID == "" {
		return model.Profile{}, remote.ErrNotAuthenticated
	}
	return model.Profile{PlayerID: model.PlayerID(resp.PlayerID), Name: resp.Name}, nil
}

func (c *Client) SubmitScore(ctx context.Context, player model.PlayerID, board string, score float64) error {
	return c.do(ctx, http.MethodPost, playerPath(player, "scores"), scoreRequest{Leaderboard: board, Score: score}, nil)
}

func (c *Client) SubmitAchievement(ctx context.Context, player model.PlayerID, id string, progress float64) error {
	return c.do(ctx, http.MethodPost, playerPath(player, "achievements"), achievementRequest{Achievement: id, Progress: progress}, nil)
}

func (c *Client) FetchScores(ctx context.Context, player model.PlayerID) (map[string]float64, error) {
	var resp scoresResponse
	if err := c.do(ctx, http.MethodGet, playerPath(player, "scores"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

func (c *Client) FetchAchievements(ctx context.Context, player model.PlayerID) (map[string]model.Achievement, error) {
	var resp achievementsResponse
	if err := c.do(ctx, http.MethodGet, playerPath(player, "achievements"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Achievements, nil
}

// Close drops pooled connections. The service keeps no server-side session.
func (c *Client) Close(context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func playerPath(player model.PlayerID, resource string) string {
	return "/v1/players/" + url.PathEscape(string(player)) + "/" + resource
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", remote.ErrUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return remote.ErrNotAuthenticated
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: status %d", remote.ErrUnavailable, method, path, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("remote rejected %s %s: status %d", method, path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
