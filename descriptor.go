package acorn

import "reflect"

// Factory constructs one service instance. The scope argument is the scope
// the resolution was issued from, so factories can resolve their own
// dependencies with the correct lifetimes.
type Factory func(s *Scope) (any, error)

// Descriptor is one immutable registration: a service key bound to a
// construction strategy and a [Lifetime]. Build descriptors with
// [NewDescriptor], [InstanceDescriptor], [PlaceholderDescriptor],
// [OpenGenericDescriptor] or [DecoratorDescriptor] and hand them to
// [Container.Register] or [Container.Apply]. Descriptors never change after
// registration.
type Descriptor struct {
	key         Key
	impl        reflect.Type
	factory     Factory
	instance    any
	hasInstance bool
	lifetime    Lifetime

	openGeneric bool
	openImpl    Key

	decorator    reflect.Type
	wrappedParam int
	isDecorator  bool
}

// NewDescriptor builds a factory-backed descriptor for key.
func NewDescriptor(key Key, lifetime Lifetime, factory Factory, opts ...Option) *Descriptor {
	d := &Descriptor{key: key, lifetime: lifetime, factory: factory}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InstanceDescriptor builds a descriptor wrapping an already-built value.
// Fixed instances are always [Singleton], whatever lifetime an option asks
// for; the instance is owned by its creator and is not released at shutdown.
func InstanceDescriptor(key Key, instance any) *Descriptor {
	return &Descriptor{
		key:         key,
		instance:    instance,
		hasInstance: true,
		lifetime:    Singleton,
		impl:        reflect.TypeOf(instance),
	}
}

// PlaceholderDescriptor builds an inert descriptor with no construction
// strategy. It registers without error and fails with [ErrNoFactory] only at
// resolution time; an ahead-of-time generator is expected to supply the
// factory-bearing registration.
func PlaceholderDescriptor(key Key, impl reflect.Type) *Descriptor {
	return &Descriptor{key: key, impl: impl, lifetime: Singleton}
}

// OpenGenericDescriptor maps an open-generic service identity to an
// open-generic implementation identity. Such a descriptor is never directly
// resolvable; resolving a closed instantiation that only matches it fails
// with [ErrOpenGeneric].
func OpenGenericDescriptor(service, impl Key, lifetime Lifetime) *Descriptor {
	return &Descriptor{
		key:         service,
		openImpl:    impl,
		lifetime:    lifetime,
		openGeneric: true,
	}
}

// DecoratorDescriptor records decorator metadata for key: the decorator type,
// its lifetime, and the index of the factory parameter that receives the
// wrapped instance. The runtime never executes decorators; the metadata is
// consumed by ahead-of-time generators and is queryable via
// [Container.Decorators].
func DecoratorDescriptor(key Key, decorator reflect.Type, lifetime Lifetime, wrappedParam int) *Descriptor {
	return &Descriptor{
		key:          key,
		decorator:    decorator,
		lifetime:     lifetime,
		wrappedParam: wrappedParam,
		isDecorator:  true,
	}
}

// Key returns the service key this descriptor is registered under.
func (d *Descriptor) Key() Key { return d.key }

// Lifetime returns the declared lifetime.
func (d *Descriptor) Lifetime() Lifetime { return d.lifetime }

// Implementation returns the implementation type identity, or nil when none
// was recorded.
func (d *Descriptor) Implementation() reflect.Type { return d.impl }

// IsOpenGeneric reports whether this is an open-generic placeholder.
func (d *Descriptor) IsOpenGeneric() bool { return d.openGeneric }

// IsDecorator reports whether this descriptor carries decorator metadata.
func (d *Descriptor) IsDecorator() bool { return d.isDecorator }

// Decorator returns the decorator type for decorator descriptors, nil
// otherwise.
func (d *Descriptor) Decorator() reflect.Type { return d.decorator }

// WrappedParam returns the index of the decorator factory parameter that
// receives the wrapped instance.
func (d *Descriptor) WrappedParam() int { return d.wrappedParam }
