package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/shotmap-report/internal/config"
	"github.com/riskibarqy/shotmap-report/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
)

// InitUptrace configures global OpenTelemetry providers for Uptrace. The
// returned shutdown flushes pending spans and must run before the process
// exits, since a report run is short lived.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled {
		logger.Debug("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return func(context.Context) error { return nil }, nil
	}

	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return func(ctx context.Context) error {
		if err := uptrace.ForceFlush(ctx); err != nil {
			logger.Warn("uptrace flush failed", "error", err)
		}
		return uptrace.Shutdown(ctx)
	}, nil
}
