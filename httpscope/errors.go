package httpscope

import "errors"

// ErrNoScope is returned by Resolve when the request context carries no
// scope, i.e. Middleware is not mounted on the route.
var ErrNoScope = errors.New("no request scope in context")
