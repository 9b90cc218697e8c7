package acorn

import "errors"

var (
	// ErrUnregistered is returned when resolution is requested for a key
	// with no descriptors. The error message names the key.
	ErrUnregistered = errors.New("no service registered")

	// ErrNoFactory is returned when the selected descriptor carries neither
	// a factory nor a fixed instance. Placeholder descriptors register fine
	// and fail with this error only when resolved.
	ErrNoFactory = errors.New("descriptor has no factory or fixed instance")

	// ErrOpenGeneric is returned when a closed instantiation is requested
	// and its only registration is an open-generic placeholder. The closed
	// form was not generated at compile time; register a factory-bearing
	// descriptor for the exact instantiation or run the generator.
	ErrOpenGeneric = errors.New("open generic was not closed at compile time")

	// ErrRuntimeConstruction is returned when a non-open-generic service is
	// registered purely by type identity. The runtime refuses to synthesize
	// a factory by introspecting the implementation type.
	ErrRuntimeConstruction = errors.New("runtime construction by type identity is not supported; supply a factory or a fixed instance")

	// ErrFrozen is returned when registration is attempted after the
	// registry has been frozen.
	ErrFrozen = errors.New("registry is frozen")

	// ErrDisposed is returned by any operation on a disposed scope or a
	// shut-down container.
	ErrDisposed = errors.New("disposed")
)
