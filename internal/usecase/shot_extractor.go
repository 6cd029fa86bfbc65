package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/shotmap-report/internal/domain/shot"
	"github.com/riskibarqy/shotmap-report/internal/platform/resolve"
)

// Candidate paths per field. Nested provider JSON comes first, flattened
// export columns after.
var (
	teamPaths     = [][]any{resolve.Path("team"), resolve.Path("team_name")}
	locationPaths = [][]any{resolve.Path("location"), resolve.Path("shot", "location")}
	outcomePaths  = [][]any{
		resolve.Path("shot_outcome"),
		resolve.Path("shot", "outcome"),
		resolve.Path("shot_outcome_name"),
	}
	endLocationPaths = [][]any{resolve.Path("shot", "end_location"), resolve.Path("shot_end_location")}
)

// ExtractShots turns raw shot event records into shot entries and the goal
// tally in a single traversal.
func ExtractShots(records []any) shot.Extraction {
	teams := DiscoverTeams(records)
	tally := shot.NewScoreTally(teams)
	shots := make([]shot.Entry, 0, len(records))

	for _, record := range records {
		entry, ok := NormalizeShot(record)
		if !ok {
			continue
		}
		tally.Record(entry)
		shots = append(shots, entry)
	}

	return shot.Extraction{
		Teams: teams,
		Shots: shots,
		Goals: tally,
	}
}

// DiscoverTeams returns the first two distinct team names in record order.
func DiscoverTeams(records []any) shot.TeamPair {
	discovered := make([]string, 0, 2)
	for _, record := range records {
		name, ok := resolveTeamName(record)
		if !ok || containsString(discovered, name) {
			continue
		}
		discovered = append(discovered, name)
		if len(discovered) == 2 {
			break
		}
	}
	return shot.NewTeamPair(discovered)
}

// NormalizeShot builds an entry from one record. It reports false when the
// record has no usable location.
func NormalizeShot(record any) (shot.Entry, bool) {
	x, y, ok := resolveLocation(record)
	if !ok {
		return shot.Entry{}, false
	}

	team, ok := resolveTeamName(record)
	if !ok {
		team = shot.UnknownTeam
	}

	outcome, hasOutcome := resolveOutcome(record)
	return shot.Entry{
		Team:       team,
		X:          x,
		Y:          y,
		Outcome:    outcome,
		HasOutcome: hasOutcome,
		OnTarget:   resolveOnTarget(record),
	}, true
}

func resolveTeamName(record any) (string, bool) {
	for _, path := range teamPaths {
		value := resolve.Resolve(record, path, nil)
		if resolve.IsMapping(value) {
			value = resolve.Resolve(value, resolve.Path("name"), nil)
		}
		if name, ok := scalarText(value); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

func resolveLocation(record any) (float64, float64, bool) {
	value, ok := resolve.FirstMatch(record, usableLocation, locationPaths...)
	if !ok {
		return 0, 0, false
	}
	x, _ := asFloat64(resolve.Resolve(value, resolve.Path(0), nil))
	y, _ := asFloat64(resolve.Resolve(value, resolve.Path(1), nil))
	return x, y, true
}

func usableLocation(value any) bool {
	n, ok := resolve.Len(value)
	if !ok || n < 2 {
		return false
	}
	if _, ok := asFloat64(resolve.Resolve(value, resolve.Path(0), nil)); !ok {
		return false
	}
	_, ok = asFloat64(resolve.Resolve(value, resolve.Path(1), nil))
	return ok
}

func resolveOutcome(record any) (string, bool) {
	value, ok := resolve.FirstMatch(record, nil, outcomePaths...)
	if !ok {
		return "", false
	}

	if resolve.IsMapping(value) {
		for _, key := range []string{"name", "type"} {
			candidate := resolve.Resolve(value, resolve.Path(key), nil)
			if resolve.IsMapping(candidate) {
				candidate = resolve.Resolve(candidate, resolve.Path("name"), nil)
			}
			if text, ok := scalarText(candidate); ok {
				return text, true
			}
		}
		return renderText(value), true
	}

	if text, ok := scalarText(value); ok {
		return text, true
	}
	return renderText(value), true
}

func resolveOnTarget(record any) bool {
	_, ok := resolve.FirstMatch(record, func(v any) bool {
		n, isSeq := resolve.Len(v)
		return isSeq && n >= 2
	}, endLocationPaths...)
	return ok
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(typed), true
	case fmt.Stringer:
		return strings.TrimSpace(typed.String()), true
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(typed), true
	default:
		return "", false
	}
}

// renderText is the last resort for outcomes that carry neither a name nor
// a type.
func renderText(value any) string {
	if out, err := sonic.ConfigStd.MarshalToString(value); err == nil {
		return out
	}
	return fmt.Sprint(value)
}

func asFloat64(value any) (float64, bool) {
	var out float64
	switch typed := value.(type) {
	case float64:
		out = typed
	case float32:
		out = float64(typed)
	case int:
		out = float64(typed)
	case int32:
		out = float64(typed)
	case int64:
		out = float64(typed)
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		out = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		out = parsed
	default:
		return 0, false
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, false
	}
	return out, true
}

func containsString(items []string, candidate string) bool {
	for _, item := range items {
		if item == candidate {
			return true
		}
	}
	return false
}
