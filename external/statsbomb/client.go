package statsbomb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

	shotTypeName    = "Shot"
	maxResponseSize = 32 << 20
)

var (
	// ErrMatchNotFound is returned when the provider has no event file for the match.
	ErrMatchNotFound = crerr.New("statsbomb match events not found")
	// ErrInvalidPayload is returned when the events document is not a JSON array.
	ErrInvalidPayload = crerr.New("statsbomb events payload is not a json array")
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client reads match events from the StatsBomb open-data repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// FetchShotEvents downloads the event file of a match and keeps only shots.
func (c *Client) FetchShotEvents(ctx context.Context, matchID int64) ([]any, error) {
	if matchID <= 0 {
		return nil, crerr.Newf("match id must be greater than zero, got %d", matchID)
	}

	fullURL := fmt.Sprintf("%s/events/%d.json", c.baseURL, matchID)
	raw, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch events match_id=%d", matchID)
	}

	records, total, err := ParseShotEvents(raw)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse events match_id=%d", matchID)
	}
	c.logger.DebugContext(ctx, "statsbomb events fetched", "match_id", matchID, "events", total, "shots", len(records))
	return records, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, crerr.Wrap(err, "read response body")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, crerr.Wrapf(ErrMatchNotFound, "url=%s", fullURL)
	default:
		c.logger.WarnContext(ctx, "statsbomb request failed", "url", fullURL, "status", resp.StatusCode)
		return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

// FileSource serves events from a local JSON file with the same layout as
// the open-data event files.
type FileSource struct {
	Path string
}

func (s FileSource) FetchShotEvents(_ context.Context, _ int64) ([]any, error) {
	return LoadEventsFile(s.Path)
}

// LoadEventsFile reads a local events document and keeps only shots.
func LoadEventsFile(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read events file path=%s", path)
	}
	records, _, err := ParseShotEvents(raw)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse events file path=%s", path)
	}
	return records, nil
}

// ParseShotEvents decodes the shot events of an events document. It also
// returns the number of events seen before filtering.
func ParseShotEvents(raw []byte) ([]any, int, error) {
	if !gjson.ValidBytes(raw) {
		return nil, 0, crerr.Wrap(ErrInvalidPayload, "malformed json")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, 0, ErrInvalidPayload
	}

	var (
		records = make([]any, 0, 64)
		total   int
		decErr  error
	)
	doc.ForEach(func(_, event gjson.Result) bool {
		total++
		if !IsShotEvent(event) {
			return true
		}
		var record map[string]any
		if err := sonic.UnmarshalString(event.Raw, &record); err != nil {
			decErr = crerr.Wrapf(err, "decode event index=%d", total-1)
			return false
		}
		records = append(records, record)
		return true
	})
	if decErr != nil {
		return nil, total, decErr
	}
	return records, total, nil
}

// IsShotEvent accepts the nested provider shape (type.name) and flattened
// exports (type or type_name columns).
func IsShotEvent(event gjson.Result) bool {
	if !event.IsObject() {
		return false
	}
	typ := event.Get("type")
	switch {
	case typ.IsObject():
		if typ.Get("name").String() == shotTypeName {
			return true
		}
	case typ.Type == gjson.String:
		if typ.String() == shotTypeName {
			return true
		}
	}
	return event.Get("type_name").String() == shotTypeName
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
