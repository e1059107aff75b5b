package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/transport/http/credentials"
)

type contextKey string

const UserKey contextKey = "user"

// SessionChecker maps a presented session token to a trusted identity.
type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (*domain.User, error)
}

// Auth returns middleware that validates the session cookie against the
// signer and the registry and injects the resolved user into context. Every
// rejection is a uniform 401; only store unavailability is surfaced apart.
func Auth(checker SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(credentials.SessionCookie)
			if err != nil || c.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			u, err := checker.CheckSession(r.Context(), c.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnavailable) {
					writeJSONError(w, http.StatusServiceUnavailable, "temporarily unavailable")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}
