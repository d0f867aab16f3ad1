// Package middleware holds the HTTP wrappers shared by every route:
// request logging, CORS, and cookie-based player auth.
package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies mws to h in order, so the last middleware listed is the
// outermost: Wrap(h, A, B) serves B(A(h)).
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
