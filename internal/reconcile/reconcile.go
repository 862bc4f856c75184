package reconcile

import (
	"maps"
	"slices"

	"github.com/mcoot/gccache/internal/model"
)

// State is a set of scores and achievement states, either local or remote
type State struct {
	Scores       map[string]float64
	Achievements map[string]model.Achievement
}

// NewState creates an empty State
func NewState() State {
	return State{
		Scores:       make(map[string]float64),
		Achievements: make(map[string]model.Achievement),
	}
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	c := State{
		Scores:       maps.Clone(s.Scores),
		Achievements: maps.Clone(s.Achievements),
	}
	if c.Scores == nil {
		c.Scores = make(map[string]float64)
	}
	if c.Achievements == nil {
		c.Achievements = make(map[string]model.Achievement)
	}
	return c
}

// OrderFunc resolves the sort order of a leaderboard
type OrderFunc func(board string) model.SortOrder

// MergeScore returns the better of two scores under the given order
func MergeScore(order model.SortOrder, local, remote float64) float64 {
	if order.Better(remote, local) {
		return remote
	}
	return local
}

// MergeAchievement combines two achievement states.
// Progress takes the maximum, the unlock flag is OR-ed, and an unlocked
// result always carries full progress.
func MergeAchievement(local, remote model.Achievement) model.Achievement {
	merged := model.Achievement{
		Progress: max(local.Progress, remote.Progress),
		Unlocked: local.Unlocked || remote.Unlocked,
	}
	if merged.Progress >= model.MaxProgress {
		merged.Unlocked = true
	}
	if merged.Unlocked {
		merged.Progress = model.MaxProgress
	}
	return merged
}

// Changes lists the IDs whose stored values were modified by a pass
type Changes struct {
	Scores       []string
	Achievements []string
}

// Empty reports whether nothing changed
func (c Changes) Empty() bool {
	return len(c.Scores) == 0 && len(c.Achievements) == 0
}

// Pull merges remote values into local, and records them as acknowledged.
// Boards and achievements absent from remote are left untouched.
func Pull(local, acked *State, remote State, order OrderFunc) Changes {
	var changes Changes

	for _, board := range sortedKeys(remote.Scores) {
		score := remote.Scores[board]
		o := order(board)

		if cur, ok := acked.Scores[board]; ok {
			acked.Scores[board] = MergeScore(o, cur, score)
		} else {
			acked.Scores[board] = score
		}

		cur, ok := local.Scores[board]
		if !ok {
			local.Scores[board] = score
			changes.Scores = append(changes.Scores, board)
			continue
		}
		if merged := MergeScore(o, cur, score); merged != cur {
			local.Scores[board] = merged
			changes.Scores = append(changes.Scores, board)
		}
	}

	for _, id := range sortedKeys(remote.Achievements) {
		ach := remote.Achievements[id]
		acked.Achievements[id] = MergeAchievement(acked.Achievements[id], ach)

		cur, ok := local.Achievements[id]
		merged := MergeAchievement(cur, ach)
		if !ok || merged != cur {
			local.Achievements[id] = merged
			changes.Achievements = append(changes.Achievements, id)
		}
	}

	return changes
}

// Submission is one value the remote service has not acknowledged yet.
// Exactly one of Board and Achievement is set.
type Submission struct {
	Board       string
	Achievement string
	Value       float64
}

// Push returns the local values strictly better than what the remote service
// is known to have, boards first, each group sorted by ID.
func Push(local, acked State, order OrderFunc) []Submission {
	var subs []Submission

	for _, board := range sortedKeys(local.Scores) {
		score := local.Scores[board]
		cur, ok := acked.Scores[board]
		if ok && !order(board).Better(score, cur) {
			continue
		}
		subs = append(subs, Submission{Board: board, Value: score})
	}

	for _, id := range sortedKeys(local.Achievements) {
		ach := local.Achievements[id]
		if ach.Progress <= acked.Achievements[id].Progress {
			continue
		}
		subs = append(subs, Submission{Achievement: id, Value: ach.Progress})
	}

	return subs
}

// Acknowledge records that the remote service accepted a submission
func Acknowledge(acked *State, sub Submission, order OrderFunc) {
	if sub.Board != "" {
		if cur, ok := acked.Scores[sub.Board]; ok {
			acked.Scores[sub.Board] = MergeScore(order(sub.Board), cur, sub.Value)
		} else {
			acked.Scores[sub.Board] = sub.Value
		}
		return
	}
	acked.Achievements[sub.Achievement] = MergeAchievement(
		acked.Achievements[sub.Achievement],
		model.Achievement{Progress: sub.Value},
	)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
