package statsbomb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const eventsFixture = `[
  {"id": "a", "type": {"id": 35, "name": "Starting XI"}, "team": {"id": 1, "name": "Home"}},
  {"id": "b", "type": {"id": 16, "name": "Shot"}, "team": {"id": 1, "name": "Home"},
   "location": [100.0, 40.0], "shot": {"outcome": {"id": 97, "name": "Goal"}, "end_location": [120.0, 39.0, 1.1]}},
  {"id": "c", "type": {"id": 30, "name": "Pass"}, "team": {"id": 2, "name": "Away"}, "location": [60.0, 20.0]},
  {"id": "d", "type": {"id": 16, "name": "Shot"}, "team": {"id": 2, "name": "Away"},
   "location": [20.0, 30.0], "shot": {"outcome": {"id": 100, "name": "Saved"}}}
]`

func TestClientFetchShotEvents_KeepsOnlyShots(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(eventsFixture))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL + "/data/"})
	records, err := client.FetchShotEvents(context.Background(), 7478)
	require.NoError(t, err)

	assert.Equal(t, "/data/events/7478.json", gotPath)
	require.Len(t, records, 2)

	first, ok := records[0].(map[string]any)
	require.True(t, ok, "expected map record, got %T", records[0])
	assert.Equal(t, "b", first["id"])
	team, ok := first["team"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Home", team["name"])
}

func TestClientFetchShotEvents_StatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "server error", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("upstream says no"))
			}))
			defer server.Close()

			client := NewClient(ClientConfig{HTTPClient: server.Client(), BaseURL: server.URL})
			_, err := client.FetchShotEvents(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tt.notFound, crerr.Is(err, ErrMatchNotFound))
		})
	}
}

func TestClientFetchShotEvents_RejectsBadInput(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := client.FetchShotEvents(context.Background(), 0)
	require.Error(t, err)
}

func TestParseShotEvents(t *testing.T) {
	t.Parallel()

	t.Run("flattened export columns", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`[
		  {"type": "Shot", "team": "Flat FC", "location": [90, 30], "shot_outcome": "Goal"},
		  {"type_name": "Shot", "team_name": "Other", "location": [10, 10]},
		  {"type": "Pass", "team": "Flat FC"},
		  "not an object"
		]`)
		records, total, err := ParseShotEvents(raw)
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, records, 2)
	})

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()

		_, _, err := ParseShotEvents([]byte(`{"events": []}`))
		require.Error(t, err)
		assert.True(t, crerr.Is(err, ErrInvalidPayload))
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		_, _, err := ParseShotEvents([]byte(`[{"type":`))
		require.Error(t, err)
		assert.True(t, crerr.Is(err, ErrInvalidPayload))
	})

	t.Run("empty array", func(t *testing.T) {
		t.Parallel()

		records, total, err := ParseShotEvents([]byte(`[]`))
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, records)
	})
}

func TestIsShotEvent(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		`{"type": {"name": "Shot"}}`:            true,
		`{"type": "Shot"}`:                      true,
		`{"type_name": "Shot"}`:                 true,
		`{"type": {"name": "shot"}}`:            false,
		`{"type": {"name": "Pass"}}`:            false,
		`{"type": 16}`:                          false,
		`{"type": {"id": 16}, "type_name": ""}`: false,
		`[]`:                                    false,
	}
	for raw, want := range cases {
		if got := IsShotEvent(gjson.Parse(raw)); got != want {
			t.Fatalf("IsShotEvent(%s)=%v want=%v", raw, got, want)
		}
	}
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(eventsFixture), 0o600))

	records, err := FileSource{Path: path}.FetchShotEvents(context.Background(), 7478)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = LoadEventsFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
