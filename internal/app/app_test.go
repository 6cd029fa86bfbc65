package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/shotmap-report/internal/config"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/riskibarqy/shotmap-report/internal/usecase"
)

const eventsDocument = `[
  {"type": {"name": "Starting XI"}, "team": {"name": "Barcelona"}},
  {"type": {"name": "Shot"}, "team": {"name": "Barcelona"}, "location": [108.0, 38.0],
   "shot": {"outcome": {"name": "Goal"}, "end_location": [120.0, 40.0, 1.0]}},
  {"type": {"name": "Shot"}, "team": {"name": "Real Madrid"}, "location": [100.0, 52.0],
   "shot": {"outcome": {"name": "Saved"}, "end_location": [120.0, 38.0, 0.5]}},
  {"type": {"name": "Shot"}, "team": {"name": "Real Madrid"}, "location": [90.0, 20.0],
   "shot": {"outcome": {"name": "Off T"}}}
]`

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:           config.EnvDev,
		ServiceName:      "shotmap-report",
		MatchID:          7478,
		StatsBombBaseURL: config.DefaultStatsBombBaseURL,
		OpenAIModel:      config.DefaultOpenAIModel,
		OutputPath:       filepath.Join(t.TempDir(), "shotmap_7478.pdf"),
		Language:         "en",
	}
}

func TestRun_OfflineFromEventsFile(t *testing.T) {
	t.Parallel()

	eventsPath := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(eventsPath, []byte(eventsDocument), 0o600); err != nil {
		t.Fatalf("write events: %v", err)
	}

	cfg := baseConfig(t)
	cfg.SkipCommentary = true

	result, err := Run(context.Background(), cfg, Options{EventsFile: eventsPath}, logging.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Scoreline != "Barcelona 1 - 0 Real Madrid" {
		t.Fatalf("unexpected scoreline: %q", result.Scoreline)
	}
	if len(result.Shots) != 3 {
		t.Fatalf("unexpected shot count: %d", len(result.Shots))
	}
	if result.Commentary != usecase.CommentaryDisabledNote {
		t.Fatalf("unexpected commentary: %q", result.Commentary)
	}

	raw, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("report is not a pdf")
	}
}

func TestRun_FetchesAndComments(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/data/events/7478.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(eventsDocument))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"## Summary\nBarcelona scored early."}}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := baseConfig(t)
	cfg.StatsBombBaseURL = server.URL + "/data"
	cfg.OpenAIBaseURL = server.URL + "/v1"
	cfg.OpenAIAPIKey = "sk-test"

	imagePath := filepath.Join(t.TempDir(), "shotmap.png")
	result, err := Run(context.Background(), cfg, Options{ImagePath: imagePath}, logging.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(result.Commentary, "Barcelona scored early.") {
		t.Fatalf("unexpected commentary: %q", result.Commentary)
	}
	if !strings.Contains(result.Prompt, "Barcelona 1 - 0 Real Madrid") {
		t.Fatalf("prompt is missing the scoreline")
	}
	if result.ImagePath != imagePath {
		t.Fatalf("unexpected image path: %q", result.ImagePath)
	}
	if _, err := os.Stat(imagePath); err != nil {
		t.Fatalf("expected image to be kept: %v", err)
	}
	if _, err := os.Stat(cfg.OutputPath); err != nil {
		t.Fatalf("expected report to be written: %v", err)
	}
}

func TestNewReportService_RejectsUnknownLanguage(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Language = "de"
	if _, err := NewReportService(cfg, Options{}, nil); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}
