package acorn

import (
	"context"
	"fmt"
	"time"

	"github.com/acornlabs/acorn/observability"
)

// ---------------------------------------------------------------------------
// Scope methods
// ---------------------------------------------------------------------------

// Resolve returns one instance for key. When key has several registrations
// the last one wins; use [Scope.ResolveAll] for every registration in order.
func (s *Scope) Resolve(key Key) (any, error) {
	if s.disposed.Load() {
		return nil, fmt.Errorf("%w: scope %s", ErrDisposed, s.id)
	}

	list := s.container.registry.lookup(key)
	if len(list) == 0 {
		return nil, s.unregistered(key)
	}
	return s.resolveDescriptor(list[len(list)-1])
}

// ResolveAll constructs every registration for key, in registration order.
// Singleton entries return their realized instance; Transient and Scoped
// entries re-derive per their lifetime rules on each call. An unregistered
// key is an error, exactly as for [Scope.Resolve].
func (s *Scope) ResolveAll(key Key) ([]any, error) {
	if s.disposed.Load() {
		return nil, fmt.Errorf("%w: scope %s", ErrDisposed, s.id)
	}

	list := s.container.registry.lookup(key)
	if len(list) == 0 {
		return nil, s.unregistered(key)
	}

	out := make([]any, 0, len(list))
	for _, d := range list {
		v, err := s.resolveDescriptor(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// unregistered distinguishes a plainly missing key from a closed generic
// instantiation whose only registration is an open-generic placeholder.
func (s *Scope) unregistered(key Key) error {
	if t := key.Type(); t != nil {
		if open, ok := openForm(t); ok {
			if len(s.container.registry.lookup(open)) > 0 {
				return fmt.Errorf("%w: %s", ErrOpenGeneric, key)
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrUnregistered, key)
}

// resolveDescriptor dispatches construction per the descriptor's lifetime and
// records the outcome.
func (s *Scope) resolveDescriptor(d *Descriptor) (any, error) {
	start := time.Now()
	v, err := s.construct(d)

	c := s.container
	c.metrics.RecordResolution(context.Background(), d.key.String(), d.lifetime.String(), time.Since(start), err)
	if err != nil {
		observability.LogResolveError(c.logger, d.key.String(), s.id, err)
	} else {
		observability.LogResolve(c.logger, d.key.String(), d.lifetime.String(), s.id, time.Since(start))
	}
	return v, err
}

func (s *Scope) construct(d *Descriptor) (any, error) {
	switch {
	case d.openGeneric:
		return nil, fmt.Errorf("%w: %s", ErrOpenGeneric, d.key)
	case d.hasInstance:
		return d.instance, nil
	case d.factory == nil:
		return nil, fmt.Errorf("%w: %s", ErrNoFactory, d.key)
	}

	switch d.lifetime {
	case Transient:
		return d.factory(s)
	case Scoped:
		return s.scopedGetOrCreate(d)
	case Singleton:
		return s.container.singletons.getOrCreate(d, s)
	default:
		return nil, fmt.Errorf("unknown lifetime %d for %s", d.lifetime, d.key)
	}
}

// ---------------------------------------------------------------------------
// Generic helpers
// ---------------------------------------------------------------------------

// Resolve is a generic helper that resolves the last registration for T from
// the scope. It is the recommended way to retrieve values:
//
//	db, err := acorn.Resolve[*Database](scope)
func Resolve[T any](s *Scope) (T, error) {
	var zero T

	v, err := s.Resolve(KeyOf[T]())
	if err != nil {
		return zero, err
	}

	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cannot convert %T to %s", v, KeyOf[T]())
	}
	return out, nil
}

// ResolveAll is a generic helper that constructs every registration for T,
// in registration order:
//
//	handlers, err := acorn.ResolveAll[Handler](scope)
func ResolveAll[T any](s *Scope) ([]T, error) {
	vs, err := s.ResolveAll(KeyOf[T]())
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(vs))
	for _, v := range vs {
		t, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to %s", v, KeyOf[T]())
		}
		out = append(out, t)
	}
	return out, nil
}
