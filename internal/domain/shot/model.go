package shot

import "strings"

// Pitch dimensions in provider units.
const (
	PitchLength = 120.0
	PitchWidth  = 80.0
)

const (
	PlaceholderHome     = "Home Team"
	PlaceholderAway     = "Away Team"
	PlaceholderOpponent = "Opponent"
	UnknownTeam         = "Unknown"
	OutcomeGoal         = "goal"
)

// Entry is one shot taken during the match. Entries are only built when both
// coordinates resolved. HasOutcome is false when the record carried no
// outcome at all, which is distinct from an empty outcome text.
type Entry struct {
	Team       string
	X          float64
	Y          float64
	Outcome    string
	HasOutcome bool
	OnTarget   bool
}

func (e Entry) IsGoal() bool {
	return e.HasOutcome && IsGoal(e.Outcome)
}

// IsGoal reports whether outcome is a goal, ignoring case.
func IsGoal(outcome string) bool {
	return strings.EqualFold(strings.TrimSpace(outcome), OutcomeGoal)
}

// TeamPair holds the two identity slots. Slot order drives colors, markers
// and the scoreline.
type TeamPair [2]string

func (p TeamPair) Home() string { return p[0] }
func (p TeamPair) Away() string { return p[1] }

// Slot returns the identity slot of team or -1.
func (p TeamPair) Slot(team string) int {
	for i, name := range p {
		if name == team {
			return i
		}
	}
	return -1
}

// NewTeamPair fills the slots from discovered names in order, padding with
// placeholders.
func NewTeamPair(discovered []string) TeamPair {
	switch len(discovered) {
	case 0:
		return TeamPair{PlaceholderHome, PlaceholderAway}
	case 1:
		second := PlaceholderAway
		if discovered[0] == PlaceholderAway {
			second = PlaceholderOpponent
		}
		return TeamPair{discovered[0], second}
	default:
		return TeamPair{discovered[0], discovered[1]}
	}
}

// Extraction is the output of one pass over the match shot events.
type Extraction struct {
	Teams TeamPair
	Shots []Entry
	Goals *ScoreTally
}

func (e Extraction) Scoreline() string {
	if e.Goals == nil {
		return NewScoreTally(e.Teams).Scoreline(e.Teams)
	}
	return e.Goals.Scoreline(e.Teams)
}
