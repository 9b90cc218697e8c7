package acorn

import (
	"context"
	"errors"
	"sync"
)

// singletonStore realizes Singleton descriptors at most once per container
// and owns the disposal of what it realized. Construction is serialized per
// descriptor, never globally, so unrelated singletons build in parallel.
type singletonStore struct {
	mu    sync.Mutex
	locks map[*Descriptor]*sync.Mutex

	instances sync.Map // *Descriptor -> any

	dmu         sync.Mutex
	disposables []any
}

func newSingletonStore() *singletonStore {
	return &singletonStore{locks: make(map[*Descriptor]*sync.Mutex)}
}

// getOrCreate returns the realized instance for d, running the factory at
// most once even under concurrent first access. Factory failures are not
// memoized; the next caller retries from scratch.
func (s *singletonStore) getOrCreate(d *Descriptor, sc *Scope) (any, error) {
	if d.hasInstance {
		return d.instance, nil
	}
	if v, ok := s.instances.Load(d); ok {
		return v, nil
	}

	lock := s.lockFor(d)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have won the race while we waited for the lock.
	if v, ok := s.instances.Load(d); ok {
		return v, nil
	}

	v, err := d.factory(sc)
	if err != nil {
		return nil, err
	}
	s.instances.Store(d, v)
	s.track(v)
	return v, nil
}

func (s *singletonStore) lockFor(d *Descriptor) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[d]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[d] = lock
	}
	return lock
}

// track records v for release at container shutdown. Realized singletons are
// owned by the store, never by the requesting scope, so they outlive scope
// teardown.
func (s *singletonStore) track(v any) {
	if !isDisposable(v) {
		return
	}
	s.dmu.Lock()
	s.disposables = append(s.disposables, v)
	s.dmu.Unlock()
}

// dispose releases every realized singleton in reverse realization order.
// If ctx expires, remaining instances are skipped and the context error is
// included in the result.
func (s *singletonStore) dispose(ctx context.Context) error {
	s.dmu.Lock()
	ds := s.disposables
	s.disposables = nil
	s.dmu.Unlock()

	var errs []error
	for i := len(ds) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := releaseInstance(ctx, ds[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
