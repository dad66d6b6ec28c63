package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/janhq/health-assistant"

// GetTracer returns the tracer for the assistant.
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartAnswerSpan wraps one end-to-end query.
func StartAnswerSpan(ctx context.Context) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "assistant.answer",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCompletionSpan wraps one completion call for a pipeline stage.
func StartCompletionSpan(ctx context.Context, stage, model string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "completion."+stage,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("completion.stage", stage),
			attribute.String("completion.model", model),
		),
	)
}

// StartToolSpan wraps one tool invocation.
func StartToolSpan(ctx context.Context, toolName string, argCount int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "tool."+toolName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", toolName),
			attribute.Int("tool.arg_count", argCount),
		),
	)
}

// StartSyncSpan wraps one vendor ingestion run.
func StartSyncSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "sync."+source,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("sync.source", source)),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

var (
	answerCounterOnce sync.Once
	answerCounter     metric.Int64Counter
)

// CountAnswer adds one answered query with its outcome to the OTel meter.
// Without a configured meter provider the global no-op provider absorbs it.
func CountAnswer(ctx context.Context, outcome string) {
	answerCounterOnce.Do(func() {
		counter, err := otel.Meter(instrumentationName).Int64Counter(
			"assistant.answers",
			metric.WithDescription("Answered queries by outcome"),
		)
		if err != nil {
			otel.Handle(err)
		}
		answerCounter = counter
	})
	if answerCounter == nil {
		return
	}
	answerCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
