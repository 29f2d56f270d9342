// Package httpx carries the small HTTP plumbing shared by handlers:
// middleware chaining, bearer-token authentication and JSON responses.
package httpx

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain wraps h in the given middlewares so that the first listed runs
// outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
