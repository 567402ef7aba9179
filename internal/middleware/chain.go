package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Chain wraps next with middlewares, the first one outermost, which is the
// order mux.Router.Use applies them in. Handlers the router calls directly,
// such as NotFoundHandler, need it to get the same middleware.
func Chain(next http.Handler, middlewares ...mux.MiddlewareFunc) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		next = middlewares[i](next)
	}
	return next
}
