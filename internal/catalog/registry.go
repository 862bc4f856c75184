package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/gccache/internal/model"
)

// Registry holds the achievement and leaderboard IDs the application knows about.
// Submissions are validated against it at call time.
type Registry struct {
	mu sync.RWMutex

	achievements   []string
	achievementSet map[string]struct{}
	leaderboards   []model.Leaderboard
	leaderboardIdx map[string]model.Leaderboard
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		achievementSet: make(map[string]struct{}),
		leaderboardIdx: make(map[string]model.Leaderboard),
	}
}

// RegisterAchievements replaces the registered achievement IDs.
// Empty and repeated IDs are dropped; order of first occurrence is kept.
func (r *Registry) RegisterAchievements(ids []string) {
	list := make([]string, 0, len(ids))
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := set[id]; dup {
			continue
		}
		set[id] = struct{}{}
		list = append(list, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.achievements = list
	r.achievementSet = set
}

// RegisterLeaderboards replaces the registered leaderboards.
// A leaderboard without an order is higher-is-better.
func (r *Registry) RegisterLeaderboards(boards []model.Leaderboard) {
	list := make([]model.Leaderboard, 0, len(boards))
	idx := make(map[string]model.Leaderboard, len(boards))
	for _, lb := range boards {
		lb.ID = strings.TrimSpace(lb.ID)
		if lb.ID == "" {
			continue
		}
		if _, dup := idx[lb.ID]; dup {
			continue
		}
		if lb.Order != model.SortAscending {
			lb.Order = model.SortDescending
		}
		idx[lb.ID] = lb
		list = append(list, lb)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaderboards = list
	r.leaderboardIdx = idx
}

// Achievements returns the registered achievement IDs in registration order
func (r *Registry) Achievements() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.achievements)
}

// Leaderboards returns the registered leaderboards in registration order
func (r *Registry) Leaderboards() []model.Leaderboard {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.leaderboards)
}

// HasAchievement reports whether id is a registered achievement
func (r *Registry) HasAchievement(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.achievementSet[id]
	return ok
}

// Leaderboard returns the registered leaderboard with the given ID
func (r *Registry) Leaderboard(id string) (model.Leaderboard, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lb, ok := r.leaderboardIdx[id]
	return lb, ok
}

// Order returns the sort order of a leaderboard.
// Boards that are no longer registered are treated as higher-is-better.
func (r *Registry) Order(id string) model.SortOrder {
	if lb, ok := r.Leaderboard(id); ok {
		return lb.Order
	}
	return model.SortDescending
}

// Reset drops both catalogs
func (r *Registry) Reset() {
	r.RegisterAchievements(nil)
	r.RegisterLeaderboards(nil)
}

// ParseLeaderboard parses "id" or "id:asc"/"id:desc"
func ParseLeaderboard(s string) (model.Leaderboard, error) {
	id, order, found := strings.Cut(strings.TrimSpace(s), ":")
	lb := model.Leaderboard{ID: strings.TrimSpace(id), Order: model.SortDescending}
	if lb.ID == "" {
		return model.Leaderboard{}, fmt.Errorf("leaderboard %q: empty id", s)
	}
	if !found {
		return lb, nil
	}

	switch model.SortOrder(strings.ToLower(strings.TrimSpace(order))) {
	case model.SortAscending:
		lb.Order = model.SortAscending
	case model.SortDescending:
	default:
		return model.Leaderboard{}, fmt.Errorf("leaderboard %q: order must be asc or desc", s)
	}
	return lb, nil
}

// ParseLeaderboards parses a list of leaderboard definitions
func ParseLeaderboards(defs []string) ([]model.Leaderboard, error) {
	boards := make([]model.Leaderboard, 0, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(def) == "" {
			continue
		}
		lb, err := ParseLeaderboard(def)
		if err != nil {
			return nil, err
		}
		boards = append(boards, lb)
	}
	return boards, nil
}
