package acorn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// Shared test types and helpers used across test files.

// mustRegister calls t.Fatal if registration fails.
func mustRegister(t *testing.T, c Container, d *Descriptor) {
	t.Helper()
	if err := c.Register(d); err != nil {
		t.Fatalf("Register(%s): %v", d.Key(), err)
	}
}

// mustScope calls t.Fatal if root scope creation fails.
func mustScope(t *testing.T, c Container) *Scope {
	t.Helper()
	s, err := c.NewScope()
	if err != nil {
		t.Fatalf("NewScope: %v", err)
	}
	return s
}

// mustChild calls t.Fatal if child scope creation fails.
func mustChild(t *testing.T, s *Scope) *Scope {
	t.Helper()
	child, err := s.NewScope()
	if err != nil {
		t.Fatalf("Scope.NewScope: %v", err)
	}
	return child
}

type testGreeter interface {
	Greet() string
}

type consoleGreeter struct{ tag int }

func (g *consoleGreeter) Greet() string { return "console" }

type alternativeGreeter struct{ tag int }

func (g *alternativeGreeter) Greet() string { return "alternative" }

type testLogger struct{ Prefix string }

// greeterComposite pairs a shared logger with a per-scope greeter; see the
// lifetime interaction tests.
type greeterComposite struct {
	Logger  *testLogger
	Greeter testGreeter
}

func newLoggerFactory(calls *int32) Factory {
	return func(*Scope) (any, error) {
		atomic.AddInt32(calls, 1)
		return &testLogger{Prefix: "app"}, nil
	}
}

func consoleGreeterDescriptor(lifetime Lifetime) *Descriptor {
	return NewDescriptor(KeyOf[testGreeter](), lifetime, func(*Scope) (any, error) {
		return &consoleGreeter{}, nil
	})
}

func alternativeGreeterDescriptor(lifetime Lifetime) *Descriptor {
	return NewDescriptor(KeyOf[testGreeter](), lifetime, func(*Scope) (any, error) {
		return &alternativeGreeter{}, nil
	})
}

// orderRecorder collects release order across goroutine-free disposal tests.
type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *orderRecorder) record(name string) {
	r.mu.Lock()
	r.order = append(r.order, name)
	r.mu.Unlock()
}

// syncCloser implements io.Closer and counts how often it was released.
type syncCloser struct {
	name   string
	closes int32
	rec    *orderRecorder
}

func (c *syncCloser) Close() error {
	atomic.AddInt32(&c.closes, 1)
	if c.rec != nil {
		c.rec.record(c.name)
	}
	return nil
}

// ctxDisposer implements the context-aware Disposable interface.
type ctxDisposer struct {
	name     string
	disposes int32
	rec      *orderRecorder
}

func (d *ctxDisposer) Dispose(context.Context) error {
	atomic.AddInt32(&d.disposes, 1)
	if d.rec != nil {
		d.rec.record(d.name)
	}
	return nil
}

// dualReleaser implements both release interfaces; disposal must take the
// context-aware path and leave Close untouched.
type dualReleaser struct {
	disposes int32
	closes   int32
}

func (d *dualReleaser) Dispose(context.Context) error {
	atomic.AddInt32(&d.disposes, 1)
	return nil
}

func (d *dualReleaser) Close() error {
	atomic.AddInt32(&d.closes, 1)
	return nil
}

// failingCloser implements io.Closer but returns an error.
type failingCloser struct{}

func (f *failingCloser) Close() error {
	return errors.New("close failed")
}
