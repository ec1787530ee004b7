package logger

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Middleware injects the logger into each request's context so handlers can
// retrieve it with FromContext.
func Middleware(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), log)))
		})
	}
}
