package acorn

import (
	"log/slog"
	"reflect"

	"github.com/acornlabs/acorn/config"
	"github.com/acornlabs/acorn/observability"
)

// Option configures a [Descriptor] before it is registered.
type Option func(*Descriptor)

// WithLifetime sets the [Lifetime] of the descriptor. The default is
// [Singleton]. Fixed-instance descriptors ignore this option and stay
// Singleton.
func WithLifetime(l Lifetime) Option {
	return func(d *Descriptor) {
		if d.hasInstance {
			return
		}
		d.lifetime = l
	}
}

// WithImplementation records the implementation type identity on the
// descriptor. Purely informational; the runtime never constructs from it.
func WithImplementation(t reflect.Type) Option {
	return func(d *Descriptor) {
		d.impl = t
	}
}

// ContainerOption configures a [Container] at construction.
type ContainerOption func(*container)

// WithLogger sets the structured logger used for resolution and disposal
// events. Without it the container stays silent.
func WithLogger(logger *slog.Logger) ContainerOption {
	return func(c *container) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Defaults to a no-op.
func WithMetrics(m observability.MetricsRecorder) ContainerOption {
	return func(c *container) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used around disposal and shutdown.
// Defaults to a no-op.
func WithSpanManager(sm observability.SpanManager) ContainerOption {
	return func(c *container) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithEagerSingletons realizes every factory-backed [Singleton] descriptor
// when the first scope is created, instead of on first resolution.
func WithEagerSingletons() ContainerOption {
	return func(c *container) {
		c.eager = true
	}
}

// WithSettings applies file-loaded runtime settings (see
// [config.Load]). Metrics and tracing fall back to no-ops when the
// OpenTelemetry providers are not configured.
func WithSettings(s config.Settings) ContainerOption {
	return func(c *container) {
		if s.EagerSingletons {
			c.eager = true
		}
		if s.Metrics {
			c.metrics = observability.NewMetricsRecorder()
		}
		if s.Tracing {
			c.spans = observability.NewSpanManager()
		}
	}
}
