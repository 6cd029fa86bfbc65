package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/shotmap-report/internal/app"
	"github.com/riskibarqy/shotmap-report/internal/config"
	"github.com/riskibarqy/shotmap-report/internal/observability"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type flags struct {
	matchID        int64
	output         string
	image          string
	eventsFile     string
	language       string
	skipCommentary bool
	envFile        string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:           "shotmap",
		Short:         "Build a shot map report for a football match",
		Long:          "Fetch the shot events of a match, draw the shot map, ask a language model for commentary and export everything as a PDF.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	rootCmd.Flags().Int64Var(&f.matchID, "match-id", 0, "match id (overrides MATCH_ID)")
	rootCmd.Flags().StringVarP(&f.output, "output", "o", "", "report path (overrides REPORT_OUTPUT_PATH)")
	rootCmd.Flags().StringVar(&f.image, "image", "", "keep the rendered shot map at this png path")
	rootCmd.Flags().StringVar(&f.eventsFile, "events-file", "", "read events from a local json file instead of the network")
	rootCmd.Flags().StringVar(&f.language, "language", "", "prompt language, en or it (overrides REPORT_LANGUAGE)")
	rootCmd.Flags().BoolVar(&f.skipCommentary, "skip-commentary", false, "do not call the language model")
	rootCmd.Flags().StringVar(&f.envFile, "env-file", ".env", "env file loaded when present")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shotmap %s\n", version)
		},
	})

	return rootCmd
}

func run(cmd *cobra.Command, f flags) error {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	applyFlags(cmd, &cfg, f)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if cfg.AppEnv == config.EnvDev {
		logger = logging.NewConsole(cfg.LogLevel)
	}
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := app.Run(ctx, cfg, app.Options{
		EventsFile: f.eventsFile,
		ImagePath:  f.image,
		KeepImage:  f.image != "",
	}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nLLM Output:\n\n%s\n", result.Commentary)
	fmt.Fprintf(out, "\nReport written to %s\n", result.OutputPath)
	return nil
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	changed := cmd.Flags().Changed
	if changed("match-id") {
		cfg.MatchID = f.matchID
		if !changed("output") && os.Getenv("REPORT_OUTPUT_PATH") == "" {
			cfg.OutputPath = config.DefaultOutputPath(f.matchID)
		}
	}
	if changed("output") {
		cfg.OutputPath = f.output
	}
	if changed("language") {
		cfg.Language = config.NormalizeLanguage(f.language)
	}
	if changed("skip-commentary") {
		cfg.SkipCommentary = f.skipCommentary
	}
}
