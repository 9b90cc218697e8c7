package acorn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/acornlabs/acorn/observability"
)

// Container owns the registry, the singleton store, and every root [Scope]
// created from it. Use [New] to create an instance.
type Container interface {
	// Register adds one descriptor. Registration order is preserved per
	// key: the last registration wins for [Scope.Resolve], and all of them
	// are returned in order by [Scope.ResolveAll]. Fails with [ErrFrozen]
	// after the registry is frozen and with [ErrDisposed] after Shutdown.
	Register(d *Descriptor) error

	// Apply merges a batch of ready-made descriptors into the registry
	// atomically: no resolution observes a partial batch. This is the
	// entry point for ahead-of-time generators that emit closed,
	// factory-bearing descriptors.
	Apply(batch []*Descriptor) error

	// Freeze makes the registry immutable and publishes the
	// read-optimized snapshot used for lock-free lookups. Idempotent; it
	// also runs implicitly on the first NewScope call.
	Freeze() error

	// NewScope creates a root resolution scope, freezing the registry
	// first if nobody has. Concurrent calls yield independent scopes.
	NewScope() (*Scope, error)

	// Decorators returns the decorator metadata registered for key, in
	// registration order. The runtime never executes decorators; the
	// metadata is data for ahead-of-time generators.
	Decorators(key Key) []*Descriptor

	// Shutdown disposes every live root scope and then releases every
	// realized singleton, preferring the context-aware [Disposable] path
	// over io.Closer. Repeated calls are no-ops. If ctx expires, remaining
	// releases are skipped and the context error is included in the
	// result.
	Shutdown(ctx context.Context) error
}

type container struct {
	registry   *registry
	singletons *singletonStore

	mu    sync.Mutex
	roots map[*Scope]struct{}
	down  atomic.Bool

	eager     bool
	eagerOnce sync.Once

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// New creates an empty [Container] ready for registration.
func New(opts ...ContainerOption) Container {
	c := &container{
		registry:   newRegistry(),
		singletons: newSingletonStore(),
		roots:      make(map[*Scope]struct{}),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *container) Register(d *Descriptor) error {
	if c.down.Load() {
		return fmt.Errorf("%w: container", ErrDisposed)
	}
	return c.registry.add(d)
}

func (c *container) Apply(batch []*Descriptor) error {
	if c.down.Load() {
		return fmt.Errorf("%w: container", ErrDisposed)
	}
	return c.registry.addBatch(batch)
}

func (c *container) Freeze() error {
	if c.down.Load() {
		return fmt.Errorf("%w: container", ErrDisposed)
	}
	c.registry.freeze()
	return nil
}

func (c *container) NewScope() (*Scope, error) {
	if c.down.Load() {
		return nil, fmt.Errorf("%w: container", ErrDisposed)
	}

	c.registry.freeze()

	root := newScope(c, nil)
	c.mu.Lock()
	if c.down.Load() {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: container", ErrDisposed)
	}
	c.roots[root] = struct{}{}
	c.mu.Unlock()

	if c.eager {
		var eagerErr error
		c.eagerOnce.Do(func() {
			eagerErr = c.realizeSingletons(root)
		})
		if eagerErr != nil {
			return nil, eagerErr
		}
	}

	c.metrics.RecordScopeEvent(context.Background(), "created")
	observability.LogScopeCreated(c.logger, root.id, "")
	return root, nil
}

// realizeSingletons eagerly constructs every factory-backed Singleton
// descriptor through the singleton store.
func (c *container) realizeSingletons(sc *Scope) error {
	var firstErr error
	c.registry.each(func(d *Descriptor) {
		if firstErr != nil {
			return
		}
		if d.lifetime != Singleton || d.factory == nil || d.openGeneric {
			return
		}
		if _, err := c.singletons.getOrCreate(d, sc); err != nil {
			firstErr = fmt.Errorf("realizing %s: %w", d.key, err)
		}
	})
	return firstErr
}

func (c *container) Decorators(key Key) []*Descriptor {
	return c.registry.decoratorsFor(key)
}

func (c *container) Shutdown(ctx context.Context) error {
	if !c.down.CompareAndSwap(false, true) {
		return nil
	}

	ctx, span := c.spans.StartShutdownSpan(ctx)

	c.mu.Lock()
	roots := make([]*Scope, 0, len(c.roots))
	for root := range c.roots {
		roots = append(roots, root)
	}
	c.roots = nil
	c.mu.Unlock()

	var errs []error
	for _, root := range roots {
		if err := root.Dispose(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.singletons.dispose(ctx); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	c.spans.EndSpanWithError(span, err)
	observability.LogShutdown(c.logger, err)
	return err
}

// ---------------------------------------------------------------------------
// Generic registration helpers
// ---------------------------------------------------------------------------

// RegisterFactory registers fn as the factory for service type T. The
// default lifetime is [Singleton]; override with [WithLifetime].
//
//	acorn.RegisterFactory(c, newGreeter, acorn.WithLifetime(acorn.Scoped))
func RegisterFactory[T any](c Container, fn func(*Scope) (T, error), opts ...Option) error {
	d := NewDescriptor(KeyOf[T](), Singleton, func(s *Scope) (any, error) {
		return fn(s)
	}, opts...)
	return c.Register(d)
}

// RegisterInstance registers an already-built value for service type T.
// Fixed instances are always [Singleton] and are not released at shutdown;
// their creator owns them.
func RegisterInstance[T any](c Container, instance T) error {
	return c.Register(InstanceDescriptor(KeyOf[T](), instance))
}

// RegisterType refuses to register TImpl for TSvc by type identity alone.
// The runtime never synthesizes a factory from a type, so this always
// returns [ErrRuntimeConstruction]; supply a factory with [RegisterFactory]
// or let an ahead-of-time generator emit the descriptor.
func RegisterType[TSvc, TImpl any](c Container) error {
	return fmt.Errorf("%w: %s (implementation %s)",
		ErrRuntimeConstruction, KeyOf[TSvc](), KeyOf[TImpl]())
}
