package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "aura.research"

// StartPipelineSpan starts a span covering one full pipeline run.
func StartPipelineSpan(ctx context.Context, taskID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pipeline",
		trace.WithAttributes(attribute.String("task.id", taskID)),
	)
}

// StartStageSpan starts a span for one pipeline phase within a run.
func StartStageSpan(ctx context.Context, taskID, stage string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, stage,
		trace.WithAttributes(attribute.String("task.id", taskID)),
	)
}
