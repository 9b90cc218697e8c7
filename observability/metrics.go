package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records container metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordResolution records one resolution with its duration and error
	// status.
	RecordResolution(ctx context.Context, key, lifetime string, duration time.Duration, err error)

	// RecordScopeEvent records a scope lifecycle event ("created" or
	// "disposed").
	RecordScopeEvent(ctx context.Context, event string)

	// RecordDisposal records a scope disposal pass: how many instances were
	// released and how long the pass took.
	RecordDisposal(ctx context.Context, released int, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolutions       metric.Int64Counter
	resolutionLatency metric.Float64Histogram
	resolutionErrors  metric.Int64Counter
	scopeEvents       metric.Int64Counter
	disposalLatency   metric.Float64Histogram
	releasedInstances metric.Int64Counter
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel
// meter provider. Configure the provider before calling this function; if
// instrument creation fails, a no-op recorder is returned.
func NewMetricsRecorder() MetricsRecorder {
	m, err := newOtelMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("acorn")

	resolutions, err := meter.Int64Counter("acorn.resolutions",
		metric.WithDescription("Number of service resolutions"),
	)
	if err != nil {
		return nil, err
	}

	resolutionLatency, err := meter.Float64Histogram("acorn.resolution.latency_ms",
		metric.WithDescription("Resolution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	resolutionErrors, err := meter.Int64Counter("acorn.resolution.errors",
		metric.WithDescription("Number of failed resolutions"),
	)
	if err != nil {
		return nil, err
	}

	scopeEvents, err := meter.Int64Counter("acorn.scope.events",
		metric.WithDescription("Scope lifecycle events"),
	)
	if err != nil {
		return nil, err
	}

	disposalLatency, err := meter.Float64Histogram("acorn.disposal.latency_ms",
		metric.WithDescription("Scope disposal latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	releasedInstances, err := meter.Int64Counter("acorn.disposal.released",
		metric.WithDescription("Number of instances released during disposal"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolutions:       resolutions,
		resolutionLatency: resolutionLatency,
		resolutionErrors:  resolutionErrors,
		scopeEvents:       scopeEvents,
		disposalLatency:   disposalLatency,
		releasedInstances: releasedInstances,
	}, nil
}

// RecordResolution records one resolution.
func (m *otelMetrics) RecordResolution(ctx context.Context, key, lifetime string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("key", key),
		attribute.String("lifetime", lifetime),
	}

	m.resolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.resolutionLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))

	if err != nil {
		m.resolutionErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordScopeEvent records a scope lifecycle event.
func (m *otelMetrics) RecordScopeEvent(ctx context.Context, event string) {
	m.scopeEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
	))
}

// RecordDisposal records a scope disposal pass.
func (m *otelMetrics) RecordDisposal(ctx context.Context, released int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
	}
	m.disposalLatency.Record(ctx, float64(duration.Microseconds())/1000.0, metric.WithAttributes(attrs...))
	m.releasedInstances.Add(ctx, int64(released), metric.WithAttributes(attrs...))
}
