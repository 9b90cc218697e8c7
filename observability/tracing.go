package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the acorn tracer instance, backed by the global OTel tracer
// provider.
var tracer = otel.Tracer("acorn")

// SpanManager handles trace span lifecycle around disposal and shutdown.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDisposeSpan starts a span covering one scope's disposal cascade.
	StartDisposeSpan(ctx context.Context, scopeID string) (context.Context, trace.Span)

	// StartShutdownSpan starts a span covering container shutdown.
	StartShutdownSpan(ctx context.Context) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartDisposeSpan starts a span covering one scope's disposal cascade.
func (m *otelSpanManager) StartDisposeSpan(ctx context.Context, scopeID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "acorn.scope.dispose",
		trace.WithAttributes(
			attribute.String("scope.id", scopeID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartShutdownSpan starts a span covering container shutdown.
func (m *otelSpanManager) StartShutdownSpan(ctx context.Context) (context.Context, trace.Span) {
	return tracer.Start(ctx, "acorn.container.shutdown",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
