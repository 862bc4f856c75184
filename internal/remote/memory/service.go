// Package memory is an in-process remote service used in tests and in local
// development mode.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/mcoot/gccache/internal/model"
	"github.com/mcoot/gccache/internal/reconcile"
	"github.com/mcoot/gccache/internal/remote"
)

// Submission records one write the service accepted
type Submission struct {
	Player model.PlayerID
	Board  string
	ID     string
	Value  float64
}

// Service keeps per-player score and achievement tables in memory
type Service struct {
	mu sync.Mutex

	profile   model.Profile
	authErr   error
	fetchErr  error
	submitErr error
	authGate  chan struct{}
	fetchGate chan struct{}

	orders       map[string]model.SortOrder
	scores       map[model.PlayerID]map[string]float64
	achievements map[model.PlayerID]map[string]model.Achievement

	submissions []Submission
	authCalls   int
	fetchCalls  int
	closeCalls  int
}

// Ensure Service implements the interface
var _ remote.Service = (*Service)(nil)

// New creates a service that authenticates as the given profile
func New(profile model.Profile) *Service {
	return &Service{
		profile:      profile,
		orders:       make(map[string]model.SortOrder),
		scores:       make(map[model.PlayerID]map[string]float64),
		achievements: make(map[model.PlayerID]map[string]model.Achievement),
	}
}

// SetProfile changes the identity returned by later logins
func (s *Service) SetProfile(p model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// FailAuthenticate makes later logins fail with err; nil restores success
func (s *Service) FailAuthenticate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authErr = err
}

// FailFetch makes later fetches fail with err; nil restores success
func (s *Service) FailFetch(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// FailSubmit makes later submissions fail with err; nil restores success
func (s *Service) FailSubmit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErr = err
}

// HoldAuthentication blocks logins until the returned release func is called
func (s *Service) HoldAuthentication() (release func()) {
	return s.hold(&s.authGate)
}

// HoldFetch blocks score fetches until the returned release func is called
func (s *Service) HoldFetch() (release func()) {
	return s.hold(&s.fetchGate)
}

func (s *Service) hold(slot *chan struct{}) func() {
	gate := make(chan struct{})
	s.mu.Lock()
	*slot = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if *slot == gate {
				*slot = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// wait blocks until a held gate is released or ctx is done
func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetOrder sets the sort order the service applies to a leaderboard
func (s *Service) SetOrder(board string, order model.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[board] = order
}

// SetScore stores a score as if another device had submitted it
func (s *Service) SetScore(player model.PlayerID, board string, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoresFor(player)[board] = score
}

// SetAchievement stores an achievement state as if another device had submitted it
func (s *Service) SetAchievement(player model.PlayerID, id string, ach model.Achievement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievementsFor(player)[id] = ach
}

// Submissions returns every accepted write in order
func (s *Service) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// AuthenticateCalls returns how many logins were attempted
func (s *Service) AuthenticateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls
}

// FetchCalls returns how many score fetches were attempted
func (s *Service) FetchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchCalls
}

// CloseCalls returns how many times the session was torn down
func (s *Service) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

func (s *Service) Authenticate(ctx context.Context) (model.Profile, error) {
	s.mu.Lock()
	s.authCalls++
	gate := s.authGate
	s.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return model.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authErr != nil {
		return model.Profile{}, s.authErr
	}
	if s.profile.PlayerID == "" {
		return model.Profile{}, remote.ErrNotAuthenticated
	}
	return s.profile, nil
}

func (s *Service) SubmitScore(_ context.Context, player model.PlayerID, board string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return s.submitErr
	}

	scores := s.scoresFor(player)
	cur, ok := scores[board]
	order := s.orders[board]
	scores[board] = score
	if ok {
		scores[board] = reconcile.MergeScore(order, cur, score)
	}
	s.submissions = append(s.submissions, Submission{Player: player, Board: board, Value: score})
	return nil
}

func (s *Service) SubmitAchievement(_ context.Context, player model.PlayerID, id string, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return s.submitErr
	}

	achs := s.achievementsFor(player)
	achs[id] = reconcile.MergeAchievement(achs[id], model.Achievement{Progress: progress})
	s.submissions = append(s.submissions, Submission{Player: player, ID: id, Value: progress})
	return nil
}

func (s *Service) FetchScores(ctx context.Context, player model.PlayerID) (map[string]float64, error) {
	s.mu.Lock()
	s.fetchCalls++
	gate := s.fetchGate
	s.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return maps.Clone(s.scores[player]), nil
}

func (s *Service) FetchAchievements(_ context.Context, player model.PlayerID) (map[string]model.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return maps.Clone(s.achievements[player]), nil
}

func (s *Service) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	return nil
}

func (s *Service) scoresFor(player model.PlayerID) map[string]float64 {
	m, ok := s.scores[player]
	if !ok {
		m = make(map[string]float64)
		s.scores[player] = m
	}
	return m
}

func (s *Service) achievementsFor(player model.PlayerID) map[string]model.Achievement {
	m, ok := s.achievements[player]
	if !ok {
		m = make(map[string]model.Achievement)
		s.achievements[player] = m
	}
	return m
}
