package httpscope_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acornlabs/acorn"
	"github.com/acornlabs/acorn/httpscope"
)

type requestLog struct {
	closed int32
}

func (l *requestLog) Close() error {
	atomic.AddInt32(&l.closed, 1)
	return nil
}

func newContainer(t *testing.T) acorn.Container {
	t.Helper()
	c := acorn.New()
	err := acorn.RegisterFactory(c, func(*acorn.Scope) (*requestLog, error) {
		return &requestLog{}, nil
	}, acorn.WithLifetime(acorn.Scoped))
	require.NoError(t, err)
	return c
}

func TestMiddleware(t *testing.T) {
	t.Run("injects a scope and resolves scoped services", func(t *testing.T) {
		c := newContainer(t)
		r := chi.NewRouter()
		httpscope.Attach(r, c)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			scope, ok := httpscope.FromContext(req.Context())
			require.True(t, ok, "request context should carry a scope")
			assert.NotEmpty(t, scope.ID())

			first, err := httpscope.Resolve[*requestLog](req.Context())
			require.NoError(t, err)
			second, err := httpscope.Resolve[*requestLog](req.Context())
			require.NoError(t, err)
			assert.Same(t, first, second, "scoped service must be stable within a request")

			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("scoped instances differ across requests", func(t *testing.T) {
		c := newContainer(t)
		r := chi.NewRouter()
		httpscope.Attach(r, c)

		var seen []*requestLog
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			log, err := httpscope.Resolve[*requestLog](req.Context())
			require.NoError(t, err)
			seen = append(seen, log)
		})

		for i := 0; i < 2; i++ {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}

		require.Len(t, seen, 2)
		assert.NotSame(t, seen[0], seen[1], "each request gets its own scope")
	})

	t.Run("disposes the scope after the handler returns", func(t *testing.T) {
		c := newContainer(t)
		r := chi.NewRouter()
		httpscope.Attach(r, c)

		var log *requestLog
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			var err error
			log, err = httpscope.Resolve[*requestLog](req.Context())
			require.NoError(t, err)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, log)
		assert.Equal(t, int32(1), atomic.LoadInt32(&log.closed), "scoped disposable should be released with the request scope")
	})

	t.Run("fails the request when the container is shut down", func(t *testing.T) {
		c := newContainer(t)
		require.NoError(t, c.Shutdown(context.Background()))

		r := chi.NewRouter()
		httpscope.Attach(r, c)
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			t.Fatal("handler must not run without a scope")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := httpscope.FromContext(context.Background())
	assert.False(t, ok)
}

func TestResolve_NoScope(t *testing.T) {
	_, err := httpscope.Resolve[*requestLog](context.Background())
	assert.ErrorIs(t, err, httpscope.ErrNoScope)
}
