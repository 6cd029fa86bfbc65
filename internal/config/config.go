package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DefaultStatsBombBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIModel      = "gpt-4"
	DefaultMatchID          = 7478
)

// Config stores runtime configuration for a report run.
type Config struct {
	AppEnv           string `validate:"oneof=dev stage prod"`
	ServiceName      string `validate:"required"`
	ServiceVersion   string
	LogLevel         logging.Level
	MatchID          int64         `validate:"gt=0"`
	StatsBombBaseURL string        `validate:"required,url"`
	StatsBombTimeout time.Duration `validate:"gt=0"`
	OpenAIAPIKey     string        `validate:"required_if=SkipCommentary false"`
	OpenAIBaseURL    string        `validate:"required,url"`
	OpenAIModel      string        `validate:"required"`
	OpenAITimeout    time.Duration `validate:"gt=0"`
	OutputPath       string        `validate:"required"`
	Language         string        `validate:"oneof=en it"`
	SkipCommentary   bool
	UptraceEnabled   bool
	UptraceDSN       string `validate:"required_if=UptraceEnabled true"`
}

// LoadDotEnv loads variables from the given files when they exist. Variables
// already set in the process environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads the environment without validating cross-field rules, so CLI
// flags can still override values before Validate runs.
func Parse() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	matchID, err := getEnvAsInt64("MATCH_ID", DefaultMatchID)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCH_ID: %w", err)
	}

	statsBombTimeout, err := time.ParseDuration(getEnv("STATSBOMB_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STATSBOMB_TIMEOUT: %w", err)
	}
	openAITimeout, err := time.ParseDuration(getEnv("OPENAI_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENAI_TIMEOUT: %w", err)
	}

	skipCommentary, err := strconv.ParseBool(getEnv("REPORT_SKIP_COMMENTARY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REPORT_SKIP_COMMENTARY: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	return Config{
		AppEnv:           appEnv,
		ServiceName:      strings.TrimSpace(getEnv("APP_SERVICE_NAME", "shotmap-report")),
		ServiceVersion:   strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:         logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		MatchID:          matchID,
		StatsBombBaseURL: strings.TrimRight(strings.TrimSpace(getEnv("STATSBOMB_BASE_URL", DefaultStatsBombBaseURL)), "/"),
		StatsBombTimeout: statsBombTimeout,
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:    strings.TrimRight(strings.TrimSpace(getEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL)), "/"),
		OpenAIModel:      strings.TrimSpace(getEnv("OPENAI_MODEL", DefaultOpenAIModel)),
		OpenAITimeout:    openAITimeout,
		OutputPath:       strings.TrimSpace(getEnv("REPORT_OUTPUT_PATH", DefaultOutputPath(matchID))),
		Language:         NormalizeLanguage(getEnv("REPORT_LANGUAGE", "en")),
		SkipCommentary:   skipCommentary,
		UptraceEnabled:   uptraceEnabled,
		UptraceDSN:       uptraceDSN,
	}, nil
}

// Validate checks field rules with validator tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultOutputPath is the report file name used when none is configured.
func DefaultOutputPath(matchID int64) string {
	return fmt.Sprintf("shotmap_%d.pdf", matchID)
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

// NormalizeLanguage folds a language code the way REPORT_LANGUAGE is read.
func NormalizeLanguage(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
