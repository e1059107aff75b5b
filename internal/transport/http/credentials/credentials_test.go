package credentials

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/quranara/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() domain.UserSnapshot {
	u := domain.User{
		UserID:       "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Phone:        "0912345678",
		FullName:     "Ali Ahmadi",
		Username:     "ali",
		PasswordHash: "$2a$12$secret",
		Role:         domain.RoleUser,
	}
	return u.Snapshot()
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSet_WritesBothCookiesWithMatchingExpiry(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(false)
	ttl := 90 * 24 * time.Hour

	require.NoError(t, w.Set(rec, "signed.token.value", snapshot(), ttl))

	want := time.Now().Add(ttl)
	for _, name := range []string{SessionCookie, UserCookie} {
		c := findCookie(t, rec, name)
		assert.True(t, c.HttpOnly, "%s must be httpOnly", name)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.False(t, c.Secure)
		assert.WithinDuration(t, want, c.Expires, 5*time.Second)
	}
	assert.Equal(t, "signed.token.value", findCookie(t, rec, SessionCookie).Value)
}

func TestSet_SecureInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewWriter(true).Set(rec, "tok", snapshot(), time.Hour))
	assert.True(t, findCookie(t, rec, SessionCookie).Secure)
	assert.True(t, findCookie(t, rec, UserCookie).Secure)
}

func TestSnapshotCookie_StripsSensitiveFields(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewWriter(false).Set(rec, "tok", snapshot(), time.Hour))

	raw, err := url.QueryUnescape(findCookie(t, rec, UserCookie).Value)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, "0912345678", payload["phone"])
	assert.Equal(t, "Ali Ahmadi", payload["fullname"])
	assert.NotContains(t, payload, "user_id")
	assert.NotContains(t, payload, "password_hash")
	for _, v := range payload {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "secret")
		}
	}
}

func TestResyncSnapshot_UsesRemainingTTLNotFullWindow(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(false)
	remaining := 24 * time.Hour // 89 days into a 90-day session

	require.NoError(t, w.ResyncSnapshot(rec, snapshot(), remaining))

	c := findCookie(t, rec, UserCookie)
	assert.WithinDuration(t, time.Now().Add(remaining), c.Expires, 5*time.Second)
	assert.True(t, c.Expires.Before(time.Now().Add(48*time.Hour)), "resync must not grant a fresh full window")

	// Only the snapshot cookie is rewritten.
	for _, cookie := range rec.Result().Cookies() {
		assert.NotEqual(t, SessionCookie, cookie.Name)
	}
}

func TestClear_ExpiresBothCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWriter(false).Clear(rec)

	for _, name := range []string{SessionCookie, UserCookie} {
		c := findCookie(t, rec, name)
		assert.True(t, c.Expires.Before(time.Now()))
		assert.Empty(t, c.Value)
	}
}
