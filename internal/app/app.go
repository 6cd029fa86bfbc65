package app

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/riskibarqy/shotmap-report/external/openai"
	"github.com/riskibarqy/shotmap-report/external/statsbomb"
	"github.com/riskibarqy/shotmap-report/internal/config"
	"github.com/riskibarqy/shotmap-report/internal/infrastructure/report"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/riskibarqy/shotmap-report/internal/usecase"
)

// Options are per-run settings that only make sense on the command line.
type Options struct {
	EventsFile string
	ImagePath  string
	KeepImage  bool
}

// NewReportService wires the pipeline collaborators from configuration.
func NewReportService(cfg config.Config, opts Options, logger *logging.Logger) (*usecase.ReportService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var events usecase.EventSource
	if path := strings.TrimSpace(opts.EventsFile); path != "" {
		events = statsbomb.FileSource{Path: path}
	} else {
		events = statsbomb.NewClient(statsbomb.ClientConfig{
			BaseURL: cfg.StatsBombBaseURL,
			Timeout: cfg.StatsBombTimeout,
			Logger:  logger,
		})
	}

	prompts, err := report.NewPromptBuilder(cfg.Language)
	if err != nil {
		return nil, err
	}

	var generator usecase.CommentaryGenerator
	if !cfg.SkipCommentary {
		generator = openai.NewClient(openai.ClientConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
			Logger:  logger,
		})
	}

	return usecase.NewReportService(
		events,
		report.NewShotMapRenderer(),
		prompts,
		generator,
		report.NewPDFWriter(cfg.ServiceName),
		logger,
	), nil
}

// Run generates one report. Every log line of the run carries the same run id.
func Run(ctx context.Context, cfg config.Config, opts Options, logger *logging.Logger) (usecase.ReportResult, error) {
	if logger == nil {
		logger = logging.Default()
	}
	runID := uuid.NewString()
	logger = logger.With("run_id", runID, "match_id", cfg.MatchID)

	service, err := NewReportService(cfg, opts, logger)
	if err != nil {
		return usecase.ReportResult{}, err
	}

	logger.InfoContext(ctx, "report run started", "output", cfg.OutputPath, "events_file", opts.EventsFile, "skip_commentary", cfg.SkipCommentary)
	result, err := service.Generate(ctx, usecase.ReportInput{
		MatchID:        cfg.MatchID,
		OutputPath:     cfg.OutputPath,
		ImagePath:      opts.ImagePath,
		KeepImage:      opts.KeepImage,
		SkipCommentary: cfg.SkipCommentary,
	})
	if err != nil {
		logger.ErrorContext(ctx, "report run failed", "error", err)
		return usecase.ReportResult{}, err
	}
	logger.InfoContext(ctx, "report run finished", "output", result.OutputPath, "scoreline", result.Scoreline, "shots", len(result.Shots))
	return result, nil
}
