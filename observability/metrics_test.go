package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a manual-reader meter provider.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}

	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "expected a real metrics recorder, got noop")
}

func TestRecordResolution(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	ctx := context.Background()

	recorder.RecordResolution(ctx, "pkg.Greeter", "scoped", 2*time.Millisecond, nil)
	recorder.RecordResolution(ctx, "pkg.Greeter", "scoped", time.Millisecond, errors.New("boom"))

	rm := collectMetrics(t, reader)

	counter := findMetric(rm, "acorn.resolutions")
	require.NotNil(t, counter, "resolution counter not recorded")
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	errCounter := findMetric(rm, "acorn.resolution.errors")
	require.NotNil(t, errCounter, "error counter not recorded")
	errSum, ok := errCounter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var errTotal int64
	for _, dp := range errSum.DataPoints {
		errTotal += dp.Value
	}
	assert.Equal(t, int64(1), errTotal)

	assert.NotNil(t, findMetric(rm, "acorn.resolution.latency_ms"))
}

func TestRecordScopeEvent(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	recorder.RecordScopeEvent(context.Background(), "created")
	recorder.RecordScopeEvent(context.Background(), "disposed")

	rm := collectMetrics(t, reader)
	events := findMetric(rm, "acorn.scope.events")
	require.NotNil(t, events)
	sum, ok := events.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 2, "created and disposed should be separate series")
}

func TestRecordDisposal(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	recorder.RecordDisposal(context.Background(), 3, 5*time.Millisecond, nil)

	rm := collectMetrics(t, reader)

	released := findMetric(rm, "acorn.disposal.released")
	require.NotNil(t, released)
	sum, ok := released.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	assert.NotNil(t, findMetric(rm, "acorn.disposal.latency_ms"))
}
