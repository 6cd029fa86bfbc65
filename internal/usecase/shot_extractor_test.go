package usecase

import (
	"encoding/json"
	"testing"

	"github.com/riskibarqy/shotmap-report/internal/domain/shot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nestedShot(team string, x, y float64, outcome string) map[string]any {
	return map[string]any{
		"type":     map[string]any{"id": float64(16), "name": "Shot"},
		"team":     map[string]any{"id": float64(1), "name": team},
		"location": []any{x, y},
		"shot": map[string]any{
			"end_location": []any{120.0, 40.0, 1.2},
			"outcome":      map[string]any{"id": float64(97), "name": outcome},
		},
	}
}

func TestExtractShots_EndToEndScenario(t *testing.T) {
	t.Parallel()

	records := []any{
		nestedShot("Home", 100, 40, "Goal"),
		nestedShot("Away", 20, 30, "Saved"),
		nestedShot("Home", 95, 35, "Off T"),
		map[string]any{"team": map[string]any{"name": "Home"}, "shot": map[string]any{"outcome": map[string]any{"name": "Blocked"}}},
		nestedShot("Away", 15, 50, "Blocked"),
		nestedShot("Home", 110, 42, "Saved"),
	}

	ex := ExtractShots(records)

	require.Len(t, ex.Shots, 5)
	assert.Equal(t, shot.TeamPair{"Home", "Away"}, ex.Teams)
	assert.Equal(t, "Home 1 - 0 Away", ex.Scoreline())
	assert.LessOrEqual(t, len(ex.Shots), len(records))

	first := ex.Shots[0]
	assert.Equal(t, "Home", first.Team)
	assert.Equal(t, 100.0, first.X)
	assert.Equal(t, 40.0, first.Y)
	require.True(t, first.HasOutcome)
	assert.Equal(t, "Goal", first.Outcome)
	assert.True(t, first.OnTarget)

	teams := make([]string, 0, len(ex.Shots))
	for _, e := range ex.Shots {
		teams = append(teams, e.Team)
	}
	assert.Equal(t, []string{"Home", "Away", "Home", "Away", "Home"}, teams)
}

func TestExtractShots_Idempotent(t *testing.T) {
	t.Parallel()

	records := []any{
		nestedShot("Home", 100, 40, "Goal"),
		nestedShot("Away", 20, 30, "Goal"),
	}

	first := ExtractShots(records)
	second := ExtractShots(records)

	assert.Equal(t, first.Shots, second.Shots)
	assert.Equal(t, first.Teams, second.Teams)
	assert.Equal(t, first.Goals.Snapshot(), second.Goals.Snapshot())
	assert.Equal(t, "Home 1 - 1 Away", second.Scoreline())
}

func TestDiscoverTeams_Degenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []any
		want    shot.TeamPair
	}{
		{
			name:    "no teams",
			records: []any{map[string]any{"location": []any{1.0, 2.0}}},
			want:    shot.TeamPair{shot.PlaceholderHome, shot.PlaceholderAway},
		},
		{
			name:    "one team",
			records: []any{nestedShot("Solo", 1, 2, "Goal"), nestedShot("Solo", 3, 4, "Saved")},
			want:    shot.TeamPair{"Solo", shot.PlaceholderAway},
		},
		{
			name: "more than two teams keeps the first two seen",
			records: []any{
				nestedShot("B", 1, 2, "Saved"),
				nestedShot("B", 1, 2, "Saved"),
				nestedShot("A", 1, 2, "Saved"),
				nestedShot("C", 1, 2, "Goal"),
			},
			want: shot.TeamPair{"B", "A"},
		},
		{
			name:    "team discovered on record without location",
			records: []any{map[string]any{"team_name": "Flat"}},
			want:    shot.TeamPair{"Flat", shot.PlaceholderAway},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DiscoverTeams(tt.records))
		})
	}
}

func TestExtractShots_OutsiderTeamGetsCounter(t *testing.T) {
	t.Parallel()

	ex := ExtractShots([]any{
		nestedShot("A", 1, 2, "Saved"),
		nestedShot("B", 1, 2, "Saved"),
		nestedShot("C", 1, 2, "Goal"),
	})

	assert.Equal(t, shot.TeamPair{"A", "B"}, ex.Teams)
	assert.Equal(t, 1, ex.Goals.Goals("C"))
	assert.Equal(t, "A 0 - 0 B", ex.Scoreline())
}

func TestNormalizeShot_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		record      any
		wantOK      bool
		wantTeam    string
		wantX       float64
		wantY       float64
		wantOutcome *string
	}{
		{
			name: "flattened columns",
			record: map[string]any{
				"team":         "Flat FC",
				"location":     []any{88.5, 31.0},
				"shot_outcome": "Goal",
			},
			wantOK: true, wantTeam: "Flat FC", wantX: 88.5, wantY: 31.0, wantOutcome: strPtr("Goal"),
		},
		{
			name: "location nested under shot",
			record: map[string]any{
				"team_name": "Nested",
				"shot":      map[string]any{"location": []any{70, 20}, "outcome": map[string]any{"name": "Wayward"}},
			},
			wantOK: true, wantTeam: "Nested", wantX: 70, wantY: 20, wantOutcome: strPtr("Wayward"),
		},
		{
			name: "direct location too short falls back to nested",
			record: map[string]any{
				"team":     map[string]any{"name": "T"},
				"location": []any{1.0},
				"shot":     map[string]any{"location": []any{5.0, 6.0}},
			},
			wantOK: true, wantTeam: "T", wantX: 5, wantY: 6,
		},
		{
			name:   "no location",
			record: map[string]any{"team": "T", "shot_outcome": "Goal"},
			wantOK: false,
		},
		{
			name:   "non numeric location",
			record: map[string]any{"team": "T", "location": []any{"left", "box"}},
			wantOK: false,
		},
		{
			name:   "location not a sequence",
			record: map[string]any{"team": "T", "location": "100,40"},
			wantOK: false,
		},
		{
			name:   "json numbers and typed slices",
			record: map[string]any{"location": []json.Number{"101.5", "39"}},
			wantOK: true, wantTeam: shot.UnknownTeam, wantX: 101.5, wantY: 39,
		},
		{
			name: "outcome mapping without name uses type",
			record: map[string]any{
				"team":         "T",
				"location":     []any{1.0, 2.0},
				"shot_outcome": map[string]any{"type": "Post"},
			},
			wantOK: true, wantTeam: "T", wantX: 1, wantY: 2, wantOutcome: strPtr("Post"),
		},
		{
			name: "outcome mapping without name or type is rendered",
			record: map[string]any{
				"team":         "T",
				"location":     []any{1.0, 2.0},
				"shot_outcome": map[string]any{"id": float64(98)},
			},
			wantOK: true, wantTeam: "T", wantX: 1, wantY: 2, wantOutcome: strPtr(`{"id":98}`),
		},
		{
			name:   "numeric text coordinates",
			record: map[string]any{"team": "T", "location": []any{"100", " 40 "}},
			wantOK: true, wantTeam: "T", wantX: 100, wantY: 40,
		},
		{
			name:   "non finite coordinates",
			record: map[string]any{"team": "T", "location": []any{"NaN", 40.0}},
			wantOK: false,
		},
		{
			name:   "not a record at all",
			record: 42,
			wantOK: false,
		},
		{
			name:   "nil record",
			record: nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry, ok := NormalizeShot(tt.record)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantTeam, entry.Team)
			assert.Equal(t, tt.wantX, entry.X)
			assert.Equal(t, tt.wantY, entry.Y)
			if tt.wantOutcome == nil {
				assert.False(t, entry.HasOutcome, "unexpected outcome %q", entry.Outcome)
				return
			}
			require.True(t, entry.HasOutcome)
			assert.Equal(t, *tt.wantOutcome, entry.Outcome)
		})
	}
}

func TestExtractShots_GoalTallyIgnoresCase(t *testing.T) {
	t.Parallel()

	records := []any{
		nestedShot("A", 1, 1, "Goal"),
		nestedShot("A", 1, 1, "GOAL"),
		nestedShot("A", 1, 1, "goal"),
		nestedShot("B", 1, 1, "Saved"),
		nestedShot("B", 1, 1, ""),
		map[string]any{"team": "B", "location": []any{1.0, 1.0}},
	}

	ex := ExtractShots(records)
	assert.Equal(t, 3, ex.Goals.Goals("A"))
	assert.Equal(t, 0, ex.Goals.Goals("B"))
	require.True(t, ex.Shots[4].HasOutcome)
	assert.Equal(t, "", ex.Shots[4].Outcome)
	assert.False(t, ex.Shots[5].HasOutcome)
}

type brokenSequence struct{}

func (brokenSequence) Len() int   { panic("sequence length unavailable") }
func (brokenSequence) At(int) any { panic("sequence item unavailable") }

func TestExtractShots_PanickingSequenceIsSkipped(t *testing.T) {
	t.Parallel()

	records := []any{
		map[string]any{"team": "A", "location": brokenSequence{}},
		map[string]any{
			"team":     "A",
			"location": []any{1.0, 2.0},
			"shot":     map[string]any{"end_location": brokenSequence{}},
		},
	}

	var ex shot.Extraction
	require.NotPanics(t, func() { ex = ExtractShots(records) })
	require.Len(t, ex.Shots, 1)
	assert.False(t, ex.Shots[0].OnTarget)
}

func strPtr(v string) *string { return &v }
