package acorn

// Lifetime controls how many instances of a service the runtime creates and
// which store owns them.
type Lifetime int

const (
	// Singleton is the default lifetime. The factory runs at most once for
	// the life of the container; every scope observes the same instance.
	Singleton Lifetime = iota

	// Scoped means one instance per [Scope]. Every scope in the tree,
	// sibling or nested, constructs and caches its own.
	Scoped

	// Transient means a new instance on every resolution. Transient
	// instances are never cached and never tracked for disposal; the caller
	// owns them entirely.
	Transient
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
