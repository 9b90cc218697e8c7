package acorn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/acornlabs/acorn/observability"
)

// Scope is a node in the resolution tree. It caches Scoped instances, owns
// their disposal, and creates child scopes for nested units of work. Root
// scopes come from [Container.NewScope]; children from [Scope.NewScope].
//
// A scope is safe for concurrent use. Once disposed it is dead: every
// resolution or child-creation call fails with [ErrDisposed].
type Scope struct {
	id        string
	container *container
	parent    *Scope

	mu          sync.Mutex
	children    map[*Scope]struct{}
	cache       map[*Descriptor]any
	locks       map[*Descriptor]*sync.Mutex
	disposables []any

	disposed atomic.Bool
}

func newScope(c *container, parent *Scope) *Scope {
	return &Scope{
		id:        uuid.NewString(),
		container: c,
		parent:    parent,
		children:  make(map[*Scope]struct{}),
		cache:     make(map[*Descriptor]any),
		locks:     make(map[*Descriptor]*sync.Mutex),
	}
}

// ID returns the scope's unique identifier, used in logs and traces.
func (s *Scope) ID() string { return s.id }

// NewScope creates a child scope. Concurrent calls yield distinct,
// independent scopes; a child's Scoped cache never overlaps its parent's.
func (s *Scope) NewScope() (*Scope, error) {
	child := newScope(s.container, s)

	s.mu.Lock()
	if s.disposed.Load() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: scope %s", ErrDisposed, s.id)
	}
	s.children[child] = struct{}{}
	s.mu.Unlock()

	c := s.container
	c.metrics.RecordScopeEvent(context.Background(), "created")
	observability.LogScopeCreated(c.logger, child.id, s.id)
	return child, nil
}

// scopedGetOrCreate returns the scope-cached instance for d, running the
// factory at most once per scope. Construction is serialized per
// (scope, descriptor) pair; unrelated keys build in parallel.
func (s *Scope) scopedGetOrCreate(d *Descriptor) (any, error) {
	s.mu.Lock()
	if v, ok := s.cache[d]; ok {
		s.mu.Unlock()
		return v, nil
	}
	lock, ok := s.locks[d]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[d] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	// Another caller may have populated the cache while we waited.
	s.mu.Lock()
	if v, ok := s.cache[d]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := d.factory(s)
	if err != nil {
		// Not cached; the next caller retries the factory.
		return nil, err
	}

	s.mu.Lock()
	s.cache[d] = v
	if isDisposable(v) {
		s.disposables = append(s.disposables, v)
	}
	s.mu.Unlock()
	return v, nil
}

// Dispose tears the scope down: all child scopes first, then this scope's
// owned instances in reverse construction order, preferring the
// context-aware [Disposable] path over io.Closer. Repeated calls are no-ops.
func (s *Scope) Dispose(ctx context.Context) error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}

	c := s.container
	ctx, span := c.spans.StartDisposeSpan(ctx, s.id)
	start := time.Now()

	s.mu.Lock()
	children := make([]*Scope, 0, len(s.children))
	for child := range s.children {
		children = append(children, child)
	}
	s.children = nil
	ds := s.disposables
	s.disposables = nil
	s.mu.Unlock()

	var errs []error
	for _, child := range children {
		if err := child.Dispose(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(ds) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := releaseInstance(ctx, ds[i]); err != nil {
			errs = append(errs, err)
		}
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	err := errors.Join(errs...)
	c.spans.EndSpanWithError(span, err)
	c.metrics.RecordScopeEvent(ctx, "disposed")
	c.metrics.RecordDisposal(ctx, len(ds), time.Since(start), err)
	observability.LogScopeDisposed(c.logger, s.id, len(ds), err)
	return err
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.children != nil {
		delete(s.children, child)
	}
}
