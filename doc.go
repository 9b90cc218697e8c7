// Package acorn is a dependency-resolution runtime for Go: a registry of
// service descriptors plus a tree of resolution scopes that instantiate,
// cache, and dispose objects according to a declared lifetime.
//
// Acorn never inspects an implementation type to invent a constructor. Every
// resolvable descriptor carries an explicit factory function or a pre-built
// instance; descriptor batches produced by an ahead-of-time generator enter
// through [Container.Apply].
//
// # Quick Start
//
//	c := acorn.New()
//	acorn.RegisterFactory(c, func(s *acorn.Scope) (*Logger, error) {
//		return &Logger{}, nil
//	})
//
//	scope, _ := c.NewScope()
//	defer scope.Dispose(context.Background())
//
//	logger, err := acorn.Resolve[*Logger](scope)
//
// # Lifetimes
//
// [Singleton] (default) — one shared instance for the lifetime of the
// container, realized at most once even under concurrent first access.
//
// [Scoped] — one instance per [Scope]; sibling and nested scopes each get
// their own.
//
// [Transient] — a fresh instance on every resolution; the caller owns it.
//
//	acorn.RegisterFactory(c, newGreeter, acorn.WithLifetime(acorn.Scoped))
//
// # Multiple registrations
//
// Descriptors for the same key accumulate in registration order. The last
// registration wins for [Scope.Resolve]; [Scope.ResolveAll] constructs every
// registration, in order.
//
// # Disposal
//
// Disposing a scope disposes its child scopes first and then releases the
// scope's own Scoped instances. [Container.Shutdown] disposes every live root
// scope and then every realized singleton. Instances implementing
// [Disposable] are released through the context-aware path; otherwise
// io.Closer is used.
package acorn
