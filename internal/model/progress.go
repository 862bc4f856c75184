package model

// MaxProgress is the progress value of a completed achievement
const MaxProgress = 100.0

// Achievement is the cached state of one achievement
type Achievement struct {
	Progress float64 `json:"progress"`
	Unlocked bool    `json:"unlocked"`
}

// ValidProgress reports whether p is an acceptable progress percentage
func ValidProgress(p float64) bool {
	return p >= 0 && p <= MaxProgress
}

// SortOrder defines which scores on a leaderboard are better
type SortOrder string

const (
	SortDescending SortOrder = "desc" // higher is better
	SortAscending  SortOrder = "asc"  // lower is better
)

// Better reports whether score a beats score b under this order.
// Unknown orders behave as SortDescending.
func (o SortOrder) Better(a, b float64) bool {
	if o == SortAscending {
		return a < b
	}
	return a > b
}

// Leaderboard is a registered leaderboard and its ordering policy
type Leaderboard struct {
	ID    string    `json:"id"`
	Order SortOrder `json:"order"`
}
