package acorn

import (
	"context"
	"io"
)

// Disposable is the context-aware release interface. When an instance
// implements both Disposable and io.Closer, disposal takes the Disposable
// path and io.Closer is not called.
type Disposable interface {
	Dispose(ctx context.Context) error
}

// isDisposable reports whether v needs to be tracked for release.
func isDisposable(v any) bool {
	switch v.(type) {
	case Disposable, io.Closer:
		return true
	}
	return false
}

// releaseInstance releases one owned instance, preferring the context-aware
// path over io.Closer.
func releaseInstance(ctx context.Context, v any) error {
	switch r := v.(type) {
	case Disposable:
		return r.Dispose(ctx)
	case io.Closer:
		return r.Close()
	}
	return nil
}
