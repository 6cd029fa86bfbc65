package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("shotmap-report/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
