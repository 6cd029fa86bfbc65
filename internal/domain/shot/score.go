package shot

import "fmt"

// ScoreTally counts goals per team in first-seen order.
type ScoreTally struct {
	goals map[string]int
	order []string
}

// NewScoreTally seeds both identity teams with zero goals.
func NewScoreTally(pair TeamPair) *ScoreTally {
	t := &ScoreTally{goals: make(map[string]int, 4)}
	for _, team := range pair {
		t.Ensure(team)
	}
	return t
}

// Ensure adds a zero counter for team when it is not tracked yet.
func (t *ScoreTally) Ensure(team string) {
	if _, ok := t.goals[team]; ok {
		return
	}
	t.goals[team] = 0
	t.order = append(t.order, team)
}

// Record registers the team of e and counts it when the outcome is a goal.
func (t *ScoreTally) Record(e Entry) {
	t.Ensure(e.Team)
	if e.IsGoal() {
		t.goals[e.Team]++
	}
}

func (t *ScoreTally) Goals(team string) int {
	if t == nil {
		return 0
	}
	return t.goals[team]
}

// Teams lists every tracked team in first-seen order.
func (t *ScoreTally) Teams() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Snapshot returns a copy of the counters.
func (t *ScoreTally) Snapshot() map[string]int {
	if t == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(t.order))
	for team, goals := range t.goals {
		out[team] = goals
	}
	return out
}

// Scoreline renders "{home} {goals} - {goals} {away}" using the pair slots.
func (t *ScoreTally) Scoreline(pair TeamPair) string {
	return fmt.Sprintf("%s %d - %d %s", pair.Home(), t.Goals(pair.Home()), t.Goals(pair.Away()), pair.Away())
}
