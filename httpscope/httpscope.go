// Package httpscope opens one acorn resolution scope per HTTP request.
//
// Mount the middleware once, then resolve request-scoped services from the
// request context inside handlers:
//
//	r := chi.NewRouter()
//	httpscope.Attach(r, container)
//
//	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
//		repo, err := httpscope.Resolve[*UserRepo](req.Context())
//		...
//	})
//
// The scope is disposed — releasing its Scoped instances — when the handler
// returns.
package httpscope

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/acornlabs/acorn"
)

type ctxKey struct{}

// Middleware returns middleware that creates a scope from c for each
// request, stores it in the request context, and disposes it after the
// handler returns. It works with chi and any other net/http stack.
func Middleware(c acorn.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := c.NewScope()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			defer func() {
				_ = scope.Dispose(r.Context())
			}()

			ctx := context.WithValue(r.Context(), ctxKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Attach mounts chi's RequestID middleware followed by the scope middleware
// on r, so scope activity can be correlated with requests.
func Attach(r chi.Router, c acorn.Container) {
	r.Use(middleware.RequestID)
	r.Use(Middleware(c))
}

// FromContext returns the request scope injected by Middleware.
func FromContext(ctx context.Context) (*acorn.Scope, bool) {
	scope, ok := ctx.Value(ctxKey{}).(*acorn.Scope)
	return scope, ok
}

// Resolve resolves the last registration for T from the request scope in
// ctx. It fails with acorn.ErrDisposed semantics passed through from the
// scope, or with an error if no scope is present.
func Resolve[T any](ctx context.Context) (T, error) {
	scope, ok := FromContext(ctx)
	if !ok {
		var zero T
		return zero, ErrNoScope
	}
	return acorn.Resolve[T](scope)
}
