package workflow

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "workflow"

// startTransitionSpan creates the span for one transition invocation.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startTransitionSpan(ctx context.Context, workflow, transition, from string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "workflow.transition")
	span.SetAttributes(
		attribute.String("workflow", workflow),
		attribute.String("transition", transition),
		attribute.String("from_state", from),
	)

	return ctx, span
}

// startHookSpan creates a child span for one hook invocation.
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startHookSpan(ctx context.Context, kind, workflow, transition string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "workflow.hook")
	span.SetAttributes(
		attribute.String("kind", kind),
		attribute.String("workflow", workflow),
		attribute.String("transition", transition),
	)

	return ctx, span
}

// endHookSpan records err on the span and ends it. A silent abort is an
// expected outcome, not an error.
func endHookSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrAbortSilently) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
