package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TokenValidator checks a bearer token against live admin sessions.
type TokenValidator interface {
	Validate(ctx context.Context, token string) error
}

// AdminSession guards admin endpoints with a session-backed bearer
// token. A token that parses but whose session was revoked is rejected
// the same as a forged one.
func AdminSession(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(auth, "Bearer ")
			if err := validator.Validate(r.Context(), token); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
