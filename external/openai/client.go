package openai

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4"

	completionsPath = "/chat/completions"
	roleUser        = "user"
)

var (
	ErrMissingAPIKey   = crerr.New("openai api key is required")
	ErrEmptyCompletion = crerr.New("openai returned no completion choices")
)

var tracer = otel.Tracer("shotmap-report/external/openai")

type ClientConfig struct {
	HTTPClient *fasthttp.Client
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client calls the chat completions endpoint.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:         "shotmap-report",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		timeout:    timeout,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Generate sends the prompt as a single user message and returns the first
// choice. The text is returned as is.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	ctx, span := tracer.Start(ctx, "openai.chat.completions")
	defer span.End()
	span.SetAttributes(attribute.String("openai.model", c.model), attribute.Int("openai.prompt_chars", len(prompt)))

	body, err := sonic.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: roleUser, Content: prompt}},
	})
	if err != nil {
		return "", crerr.Wrap(err, "marshal chat request")
	}

	raw, status, err := c.post(ctx, c.baseURL+completionsPath, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	var decoded chatResponse
	decodeErr := sonic.Unmarshal(raw, &decoded)

	if status < 200 || status >= 300 {
		msg := abbreviateBody(raw)
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		err := crerr.Newf("openai status=%d message=%s", status, msg)
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-2xx response")
		c.logger.WarnContext(ctx, "openai request failed", "status", status, "model", c.model)
		return "", err
	}
	if decodeErr != nil {
		return "", crerr.Wrap(decodeErr, "decode chat response")
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	text := decoded.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "openai completion received", "model", c.model, "chars", len(text))
	return text, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBodyRaw(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, crerr.Wrap(err, "send chat request")
	}

	// resp is released on return, so the body has to be copied.
	raw := append([]byte(nil), resp.Body()...)
	return raw, resp.StatusCode(), nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
