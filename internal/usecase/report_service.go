package usecase

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/shotmap-report/internal/domain/shot"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// CommentaryDisabledNote replaces the generated text when commentary is skipped.
const CommentaryDisabledNote = "Commentary generation was disabled for this run."

// EventSource returns the shot event records of one match.
type EventSource interface {
	FetchShotEvents(ctx context.Context, matchID int64) ([]any, error)
}

// CommentaryGenerator turns a prompt into free text.
type CommentaryGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PromptBuilder encodes the extracted shots into an instruction prompt.
type PromptBuilder interface {
	Build(ex shot.Extraction) (string, error)
}

// ShotMapRenderer draws the shots over a pitch and saves the image at path.
type ShotMapRenderer interface {
	Render(ex shot.Extraction, path string) error
}

// DocumentWriter exports the final report.
type DocumentWriter interface {
	Write(doc ReportDocument, path string) error
}

// ReportDocument is everything the exported report shows.
type ReportDocument struct {
	Title      string
	MatchID    int64
	Scoreline  string
	ImagePath  string
	Commentary string
	ShotCount  int
}

type ReportInput struct {
	MatchID        int64
	OutputPath     string
	ImagePath      string
	KeepImage      bool
	SkipCommentary bool
}

type ReportResult struct {
	OutputPath string
	ImagePath  string
	Teams      shot.TeamPair
	Shots      []shot.Entry
	Scoreline  string
	Prompt     string
	Commentary string
}

type ReportService struct {
	events    EventSource
	renderer  ShotMapRenderer
	prompts   PromptBuilder
	generator CommentaryGenerator
	writer    DocumentWriter
	logger    *logging.Logger
}

func NewReportService(
	events EventSource,
	renderer ShotMapRenderer,
	prompts PromptBuilder,
	generator CommentaryGenerator,
	writer DocumentWriter,
	logger *logging.Logger,
) *ReportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReportService{
		events:    events,
		renderer:  renderer,
		prompts:   prompts,
		generator: generator,
		writer:    writer,
		logger:    logger,
	}
}

// Generate runs fetch, extraction, rendering, commentary and export in order.
// Any failing step aborts the run.
func (s *ReportService) Generate(ctx context.Context, in ReportInput) (ReportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Generate", attribute.Int64("match.id", in.MatchID))
	defer span.End()

	if in.MatchID <= 0 {
		return ReportResult{}, errors.Wrapf(ErrInvalidInput, "match id must be greater than zero, got %d", in.MatchID)
	}
	outputPath := strings.TrimSpace(in.OutputPath)
	if outputPath == "" {
		return ReportResult{}, errors.Wrap(ErrInvalidInput, "output path is required")
	}
	if !in.SkipCommentary && s.generator == nil {
		return ReportResult{}, errors.Wrap(ErrInvalidInput, "commentary generator is not configured")
	}

	records, err := s.fetch(ctx, in.MatchID)
	if err != nil {
		return ReportResult{}, err
	}

	ex := ExtractShots(records)
	scoreline := ex.Scoreline()
	s.logger.InfoContext(ctx, "shots extracted",
		"match_id", in.MatchID,
		"records", len(records),
		"shots", len(ex.Shots),
		"dropped", len(records)-len(ex.Shots),
		"scoreline", scoreline,
	)

	imagePath, cleanup, err := s.prepareImagePath(in)
	if err != nil {
		return ReportResult{}, err
	}
	defer func() {
		if cleanErr := cleanup(); cleanErr != nil {
			s.logger.WarnContext(ctx, "remove shot map image failed", "path", imagePath, "error", cleanErr)
		}
	}()

	if err := s.render(ctx, ex, imagePath); err != nil {
		return ReportResult{}, err
	}

	prompt, err := s.prompts.Build(ex)
	if err != nil {
		return ReportResult{}, errors.Wrap(err, "build commentary prompt")
	}

	commentary := CommentaryDisabledNote
	if !in.SkipCommentary {
		commentary, err = s.comment(ctx, prompt)
		if err != nil {
			return ReportResult{}, err
		}
	}

	doc := ReportDocument{
		Title:      "Shot Map Report",
		MatchID:    in.MatchID,
		Scoreline:  scoreline,
		ImagePath:  imagePath,
		Commentary: commentary,
		ShotCount:  len(ex.Shots),
	}
	if err := s.export(ctx, doc, outputPath); err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{
		OutputPath: outputPath,
		Teams:      ex.Teams,
		Shots:      ex.Shots,
		Scoreline:  scoreline,
		Prompt:     prompt,
		Commentary: commentary,
	}
	if in.KeepImage || strings.TrimSpace(in.ImagePath) != "" {
		result.ImagePath = imagePath
	}
	return result, nil
}

func (s *ReportService) fetch(ctx context.Context, matchID int64) ([]any, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.fetch")
	defer span.End()

	records, err := s.events.FetchShotEvents(ctx, matchID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Mark(errors.Wrapf(err, "fetch shot events match_id=%d", matchID), ErrDependencyUnavailable)
	}
	span.SetAttributes(attribute.Int("events.count", len(records)))
	return records, nil
}

func (s *ReportService) render(ctx context.Context, ex shot.Extraction, path string) error {
	_, span := startUsecaseSpan(ctx, "usecase.ReportService.render")
	defer span.End()

	if err := s.renderer.Render(ex, path); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "render shot map")
	}
	s.logger.DebugContext(ctx, "shot map rendered", "path", path)
	return nil
}

func (s *ReportService) comment(ctx context.Context, prompt string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.comment")
	defer span.End()

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return "", errors.Mark(errors.Wrap(err, "generate commentary"), ErrDependencyUnavailable)
	}
	s.logger.InfoContext(ctx, "commentary generated", "chars", len(text))
	return text, nil
}

func (s *ReportService) export(ctx context.Context, doc ReportDocument, path string) error {
	_, span := startUsecaseSpan(ctx, "usecase.ReportService.export")
	defer span.End()

	if err := s.writer.Write(doc, path); err != nil {
		span.RecordError(err)
		return errors.Wrapf(err, "write report path=%s", path)
	}
	s.logger.InfoContext(ctx, "report written", "path", path, "match_id", doc.MatchID)
	return nil
}

// prepareImagePath returns the path to render into and the cleanup to run
// once the report is exported. Only temporary images are removed.
func (s *ReportService) prepareImagePath(in ReportInput) (string, func() error, error) {
	noop := func() error { return nil }
	if path := strings.TrimSpace(in.ImagePath); path != "" {
		return path, noop, nil
	}

	file, err := os.CreateTemp("", "shotmap-*.png")
	if err != nil {
		return "", noop, errors.Wrap(err, "create temporary image file")
	}
	path := file.Name()
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", noop, errors.Wrap(err, "close temporary image file")
	}
	if in.KeepImage {
		return path, noop, nil
	}
	return path, func() error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}, nil
}
