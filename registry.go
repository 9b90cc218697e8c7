package acorn

import (
	"sync"
	"sync/atomic"
)

// registry is the append-only-until-frozen multimap from service key to an
// ordered list of descriptors. freeze publishes an immutable snapshot through
// an atomic pointer; every lookup after that is lock-free.
type registry struct {
	mu         sync.Mutex
	services   map[Key][]*Descriptor
	decorators map[Key][]*Descriptor

	snapshot atomic.Pointer[registrySnapshot]
}

// registrySnapshot is the read-only view published by freeze. Neither the
// maps nor the slices are ever mutated after publication.
type registrySnapshot struct {
	services   map[Key][]*Descriptor
	decorators map[Key][]*Descriptor
}

func newRegistry() *registry {
	return &registry{
		services:   make(map[Key][]*Descriptor),
		decorators: make(map[Key][]*Descriptor),
	}
}

func (r *registry) frozen() bool {
	return r.snapshot.Load() != nil
}

// add appends d to the list for its key, preserving insertion order.
func (r *registry) add(d *Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen() {
		return ErrFrozen
	}
	r.insert(d)
	return nil
}

// addBatch appends every descriptor under one lock acquisition, so no reader
// observes a partial batch.
func (r *registry) addBatch(ds []*Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen() {
		return ErrFrozen
	}
	for _, d := range ds {
		r.insert(d)
	}
	return nil
}

// insert must hold r.mu. Decorator descriptors go to the side table and never
// participate in resolution.
func (r *registry) insert(d *Descriptor) {
	if d.isDecorator {
		r.decorators[d.key] = append(r.decorators[d.key], d)
		return
	}
	r.services[d.key] = append(r.services[d.key], d)
}

// freeze publishes the immutable snapshot. Idempotent; repeated calls are
// no-ops.
func (r *registry) freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen() {
		return
	}
	r.snapshot.Store(&registrySnapshot{
		services:   cloneLists(r.services),
		decorators: cloneLists(r.decorators),
	})
}

func cloneLists(m map[Key][]*Descriptor) map[Key][]*Descriptor {
	out := make(map[Key][]*Descriptor, len(m))
	for k, list := range m {
		cp := make([]*Descriptor, len(list))
		copy(cp, list)
		out[k] = cp
	}
	return out
}

// lookup returns the descriptors registered for key, in registration order.
// An empty result means unregistered. Callers must not mutate the slice.
func (r *registry) lookup(key Key) []*Descriptor {
	if snap := r.snapshot.Load(); snap != nil {
		return snap.services[key]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.services[key]
	cp := make([]*Descriptor, len(list))
	copy(cp, list)
	return cp
}

// decoratorsFor returns the decorator metadata registered for key, in
// registration order.
func (r *registry) decoratorsFor(key Key) []*Descriptor {
	if snap := r.snapshot.Load(); snap != nil {
		return snap.decorators[key]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.decorators[key]
	cp := make([]*Descriptor, len(list))
	copy(cp, list)
	return cp
}

// each calls fn for every service descriptor in the frozen snapshot. Must
// only be called after freeze.
func (r *registry) each(fn func(*Descriptor)) {
	snap := r.snapshot.Load()
	if snap == nil {
		return
	}
	for _, list := range snap.services {
		for _, d := range list {
			fn(d)
		}
	}
}
