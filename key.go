package acorn

import (
	"reflect"
	"strings"
)

// Key identifies a registered service. Ordinary services are keyed by their
// reflect.Type; closed generic instantiations are distinct types in Go, so
// Cache[string, User] and Cache[int, Product] never collide. Open-generic
// placeholders have no type of their own and are keyed by package path and
// base name instead.
//
// Key is comparable and safe to use as a map key.
type Key struct {
	typ     reflect.Type
	pkgPath string
	name    string
}

// KeyOf returns the Key for the service type T.
func KeyOf[T any]() Key {
	return KeyForType(reflect.TypeOf((*T)(nil)).Elem())
}

// KeyForType returns the Key for the given reflect.Type.
func KeyForType(t reflect.Type) Key {
	return Key{typ: t}
}

// OpenGenericKey returns the Key identifying an open (uninstantiated) generic
// service, e.g. OpenGenericKey("example.com/cache", "Cache"). Descriptors
// registered under such a key are never directly resolvable; see
// [ErrOpenGeneric].
func OpenGenericKey(pkgPath, name string) Key {
	return Key{pkgPath: pkgPath, name: name}
}

// Type returns the service type, or nil for open-generic keys.
func (k Key) Type() reflect.Type { return k.typ }

// IsOpenGeneric reports whether k identifies an open-generic placeholder.
func (k Key) IsOpenGeneric() bool { return k.typ == nil }

// String returns the display name used in error messages.
func (k Key) String() string {
	if k.typ != nil {
		return k.typ.String()
	}
	if k.pkgPath != "" {
		return k.pkgPath + "." + k.name + "[...]"
	}
	return k.name + "[...]"
}

// openForm returns the open-generic Key a closed instantiation belongs to.
// The second result is false when t is not a generic instantiation.
func openForm(t reflect.Type) (Key, bool) {
	name := t.Name()
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return Key{}, false
	}
	return OpenGenericKey(t.PkgPath(), name[:i]), true
}
