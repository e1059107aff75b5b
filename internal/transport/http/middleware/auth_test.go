package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/transport/http/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	user *domain.User
	err  error
}

func (s *stubChecker) CheckSession(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func doRequest(t *testing.T, checker SessionChecker, cookie *http.Cookie) (*httptest.ResponseRecorder, *domain.User) {
	t.Helper()
	var seen *domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	Auth(checker)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuth_MissingCookie(t *testing.T) {
	rec, _ := doRequest(t, &stubChecker{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectedSession(t *testing.T) {
	checker := &stubChecker{err: fmt.Errorf("no session record: %w", domain.ErrUnauthorized)}
	rec, _ := doRequest(t, checker, &http.Cookie{Name: credentials.SessionCookie, Value: "stale.token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// The body must not reveal which sub-check failed.
	assert.Contains(t, rec.Body.String(), "unauthorized")
	assert.NotContains(t, rec.Body.String(), "session record")
}

func TestAuth_StoreUnavailableIsNot401(t *testing.T) {
	checker := &stubChecker{err: fmt.Errorf("get session: %w", domain.ErrUnavailable)}
	rec, _ := doRequest(t, checker, &http.Cookie{Name: credentials.SessionCookie, Value: "tok"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuth_InjectsUserIntoContext(t *testing.T) {
	u := &domain.User{UserID: "u1", Role: domain.RoleAdmin}
	rec, seen := doRequest(t, &stubChecker{user: u}, &http.Cookie{Name: credentials.SessionCookie, Value: "tok"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(domain.RoleAdmin)(next)

	t.Run("admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		ctx := context.WithValue(req.Context(), UserKey, &domain.User{UserID: "a1", Role: domain.RoleAdmin})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		ctx := context.WithValue(req.Context(), UserKey, &domain.User{UserID: "u1", Role: domain.RoleUser})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSecure_GatewayChecks(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Secure("https://app.example.com", "shared-secret")(next)

	cases := []struct {
		name   string
		origin string
		secret string
		want   int
	}{
		{"valid", "https://app.example.com", "shared-secret", http.StatusOK},
		{"wrong origin", "https://evil.example.com", "shared-secret", http.StatusForbidden},
		{"missing secret", "https://app.example.com", "", http.StatusForbidden},
		{"wrong secret", "https://app.example.com", "guess", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/health-check", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.secret != "" {
				req.Header.Set("X-Quranara-Secret", tc.secret)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
