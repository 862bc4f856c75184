package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/mcoot/gccache/internal/api/response"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Profile:
		o.printProfile(v)
	case response.ProfileList:
		o.printProfileList(v)
	case response.ProfileDetail:
		o.printProfileDetail(v)
	case response.Scores:
		o.printScores(v.Scores)
	case response.Achievements:
		o.printAchievements(v.Achievements)
	case response.Changed:
		o.printChanged(v)
	case response.Removed:
		if v.Removed {
			fmt.Fprintln(o.w, "Profile removed")
		} else {
			fmt.Fprintln(o.w, "Profile was not stored")
		}
	case response.AchievementCatalog:
		o.printAchievementCatalog(v)
	case response.LeaderboardCatalog:
		o.printLeaderboardCatalog(v)
	case response.Session:
		o.printSession(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Profiles: %d\n", v.Profiles)
		fmt.Fprintf(o.w, "Session: %s\n", v.Session)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func profileFlags(p response.Profile) string {
	flags := ""
	if p.IsActive {
		flags += " [active]"
	}
	if p.IsAuthenticated {
		flags += " [authenticated]"
	}
	if p.IsDefault {
		flags += " [default]"
	}
	if p.IsConnected {
		flags += " [connected]"
	}
	return flags
}

func (o *Output) printProfile(p response.Profile) {
	fmt.Fprintf(o.w, "Profile: %s%s\n", p.ProfileName, profileFlags(p))
	fmt.Fprintf(o.w, "Fingerprint: %s\n", p.Fingerprint)
	if p.IsLocal {
		fmt.Fprintln(o.w, "Player: (local)")
	} else {
		fmt.Fprintf(o.w, "Player: %s\n", p.PlayerID)
	}
	if p.SyncedAt != nil {
		fmt.Fprintf(o.w, "Last sync: %s\n", p.SyncedAt.Format(time.RFC3339))
	}
}

func (o *Output) printProfileList(l response.ProfileList) {
	if len(l.Profiles) == 0 {
		fmt.Fprintln(o.w, "No cached profiles")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FINGERPRINT\tNAME\tPLAYER\tFLAGS")
	for _, p := range l.Profiles {
		player := p.PlayerID
		if p.IsLocal {
			player = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Fingerprint, p.ProfileName, player, profileFlags(p))
	}
	_ = tw.Flush()
}

func (o *Output) printProfileDetail(d response.ProfileDetail) {
	o.printProfile(d.Profile)
	if d.Dirty {
		fmt.Fprintln(o.w, "Unsaved changes: yes")
	}
	fmt.Fprintln(o.w)
	o.printScores(d.Scores)
	fmt.Fprintln(o.w)
	o.printAchievements(d.Achievements)
}

func (o *Output) printScores(scores map[string]float64) {
	if len(scores) == 0 {
		fmt.Fprintln(o.w, "No scores")
		return
	}
	fmt.Fprintln(o.w, "Scores:")
	for _, board := range slices.Sorted(maps.Keys(scores)) {
		fmt.Fprintf(o.w, "  %s: %g\n", board, scores[board])
	}
}

func (o *Output) printAchievements(achs map[string]response.Achievement) {
	if len(achs) == 0 {
		fmt.Fprintln(o.w, "No achievements")
		return
	}
	fmt.Fprintln(o.w, "Achievements:")
	for _, id := range slices.Sorted(maps.Keys(achs)) {
		a := achs[id]
		if a.Unlocked {
			fmt.Fprintf(o.w, "  %s: unlocked\n", id)
		} else {
			fmt.Fprintf(o.w, "  %s: %g%%\n", id, a.Progress)
		}
	}
}

func (o *Output) printChanged(c response.Changed) {
	if c.Changed {
		fmt.Fprintln(o.w, "Updated")
	} else {
		fmt.Fprintln(o.w, "Unchanged")
	}
}

func (o *Output) printAchievementCatalog(c response.AchievementCatalog) {
	fmt.Fprintf(o.w, "Achievements (%d):\n", len(c.Achievements))
	for _, id := range c.Achievements {
		fmt.Fprintf(o.w, "  - %s\n", id)
	}
}

func (o *Output) printLeaderboardCatalog(c response.LeaderboardCatalog) {
	fmt.Fprintf(o.w, "Leaderboards (%d):\n", len(c.Leaderboards))
	for _, lb := range c.Leaderboards {
		fmt.Fprintf(o.w, "  - %s (%s)\n", lb.ID, lb.Order)
	}
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.State)
	if s.Active != nil {
		fmt.Fprintf(o.w, "Active: %s (%s)\n", s.Active.ProfileName, s.Active.Fingerprint)
	}
	if s.Authenticated != nil {
		fmt.Fprintf(o.w, "Authenticated: %s (%s)\n", s.Authenticated.PlayerID, s.Authenticated.Fingerprint)
	}
}
