package reconcile

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gccache/internal/model"
)

type ReconcileSuite struct {
	suite.Suite
	local State
	acked State
	order OrderFunc
}

func TestReconcileSuite(t *testing.T) {
	suite.Run(t, new(ReconcileSuite))
}

func (s *ReconcileSuite) SetupTest() {
	s.local = NewState()
	s.acked = NewState()
	s.order = func(board string) model.SortOrder {
		if board == "fastest" {
			return model.SortAscending
		}
		return model.SortDescending
	}
}

// Merge policy tests

func (s *ReconcileSuite) TestMergeScoreHigherIsBetter() {
	s.Equal(100.0, MergeScore(model.SortDescending, 100, 50))
	s.Equal(150.0, MergeScore(model.SortDescending, 100, 150))
}

func (s *ReconcileSuite) TestMergeScoreLowerIsBetter() {
	s.Equal(9.0, MergeScore(model.SortAscending, 12, 9))
	s.Equal(9.0, MergeScore(model.SortAscending, 9, 12))
}

func (s *ReconcileSuite) TestMergeAchievementTakesMaxProgress() {
	merged := MergeAchievement(model.Achievement{Progress: 70}, model.Achievement{Progress: 40})
	s.Equal(model.Achievement{Progress: 70}, merged)
}

func (s *ReconcileSuite) TestMergeAchievementUnlockIsSticky() {
	merged := MergeAchievement(model.Achievement{Progress: 100, Unlocked: true}, model.Achievement{Progress: 10})
	s.Equal(model.Achievement{Progress: 100, Unlocked: true}, merged)

	merged = MergeAchievement(model.Achievement{Progress: 20}, model.Achievement{Unlocked: true})
	s.Equal(model.Achievement{Progress: 100, Unlocked: true}, merged)
}

func (s *ReconcileSuite) TestMergeAchievementFullProgressUnlocks() {
	merged := MergeAchievement(model.Achievement{}, model.Achievement{Progress: 100})
	s.True(merged.Unlocked)
}

// Pull tests

func (s *ReconcileSuite) TestPullLocalMaxWins() {
	s.local.Achievements["explorer"] = model.Achievement{Progress: 70}

	changes := Pull(&s.local, &s.acked, State{Achievements: map[string]model.Achievement{
		"explorer": {Progress: 40},
	}}, s.order)

	s.True(changes.Empty())
	s.Equal(70.0, s.local.Achievements["explorer"].Progress)
	s.Equal(40.0, s.acked.Achievements["explorer"].Progress)
}

func (s *ReconcileSuite) TestPullRemoteAheadUpdatesLocal() {
	s.local.Achievements["explorer"] = model.Achievement{Progress: 70}

	changes := Pull(&s.local, &s.acked, State{Achievements: map[string]model.Achievement{
		"explorer": {Progress: 90},
	}}, s.order)

	s.Equal([]string{"explorer"}, changes.Achievements)
	s.Equal(90.0, s.local.Achievements["explorer"].Progress)
}

func (s *ReconcileSuite) TestPullScoresRespectOrder() {
	s.local.Scores["hiscore"] = 100
	s.local.Scores["fastest"] = 30

	changes := Pull(&s.local, &s.acked, State{Scores: map[string]float64{
		"hiscore": 80,
		"fastest": 25,
	}}, s.order)

	s.Equal([]string{"fastest"}, changes.Scores)
	s.Equal(100.0, s.local.Scores["hiscore"])
	s.Equal(25.0, s.local.Scores["fastest"])
}

func (s *ReconcileSuite) TestPullMissingRemoteLeavesLocalUntouched() {
	s.local.Scores["hiscore"] = 100
	s.local.Achievements["explorer"] = model.Achievement{Progress: 10}

	changes := Pull(&s.local, &s.acked, State{}, s.order)

	s.True(changes.Empty())
	s.Equal(100.0, s.local.Scores["hiscore"])
	s.Equal(10.0, s.local.Achievements["explorer"].Progress)
}

func (s *ReconcileSuite) TestPullAddsNewRemoteValues() {
	changes := Pull(&s.local, &s.acked, State{Scores: map[string]float64{"hiscore": 5}}, s.order)

	s.Equal([]string{"hiscore"}, changes.Scores)
	s.Equal(5.0, s.local.Scores["hiscore"])
}

func (s *ReconcileSuite) TestPullIsIdempotent() {
	remote := State{
		Scores:       map[string]float64{"hiscore": 200},
		Achievements: map[string]model.Achievement{"explorer": {Progress: 55}},
	}

	first := Pull(&s.local, &s.acked, remote, s.order)
	s.False(first.Empty())

	second := Pull(&s.local, &s.acked, remote, s.order)
	s.True(second.Empty())
}

// Push tests

func (s *ReconcileSuite) TestPushSubmitsUnacknowledgedValues() {
	s.local.Scores["hiscore"] = 100
	s.local.Achievements["explorer"] = model.Achievement{Progress: 60}

	subs := Push(s.local, s.acked, s.order)

	s.Equal([]Submission{
		{Board: "hiscore", Value: 100},
		{Achievement: "explorer", Value: 60},
	}, subs)
}

func (s *ReconcileSuite) TestPushSkipsValuesNotStrictlyBetter() {
	s.local.Scores["hiscore"] = 100
	s.local.Scores["fastest"] = 40
	s.local.Achievements["explorer"] = model.Achievement{Progress: 60}
	s.acked.Scores["hiscore"] = 100
	s.acked.Scores["fastest"] = 35
	s.acked.Achievements["explorer"] = model.Achievement{Progress: 60}

	s.Empty(Push(s.local, s.acked, s.order))
}

func (s *ReconcileSuite) TestPushLowerIsBetter() {
	s.local.Scores["fastest"] = 30
	s.acked.Scores["fastest"] = 35

	s.Equal([]Submission{{Board: "fastest", Value: 30}}, Push(s.local, s.acked, s.order))
}

func (s *ReconcileSuite) TestAcknowledgeStopsResubmission() {
	s.local.Scores["hiscore"] = 100
	s.local.Achievements["explorer"] = model.Achievement{Progress: 100, Unlocked: true}

	for _, sub := range Push(s.local, s.acked, s.order) {
		Acknowledge(&s.acked, sub, s.order)
	}

	s.Empty(Push(s.local, s.acked, s.order))
	s.True(s.acked.Achievements["explorer"].Unlocked)
}
