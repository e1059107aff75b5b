// Package credentials writes the client-held credential cookie pair: the
// opaque signed session token and the readable user snapshot. Both expiries
// are always derived from the session registry's TTL, never from a fixed
// constant, so the client-visible expiry never implies more trust than the
// server retains.
package credentials

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/quranara/api/internal/domain"
)

const (
	SessionCookie = "_session"
	UserCookie    = "_user"
)

// Writer sets and clears the credential cookies on responses.
type Writer struct {
	secure bool
}

// NewWriter returns a Writer; secure toggles the Secure cookie attribute and
// is enabled in production.
func NewWriter(secure bool) *Writer {
	return &Writer{secure: secure}
}

func (w *Writer) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Set writes both credential cookies. ttl is the registry window at issuance
// time, so both artifacts expire together with server-side trust.
func (w *Writer) Set(rw http.ResponseWriter, token string, snapshot domain.UserSnapshot, ttl time.Duration) error {
	http.SetCookie(rw, w.cookie(SessionCookie, token, ttl))
	return w.writeSnapshot(rw, snapshot, ttl)
}

// ResyncSnapshot rewrites only the snapshot cookie after a profile mutation.
// ttl must be the registry's remaining lifetime: resyncing an 89-day-old
// session yields a 1-day cookie, never a fresh 90-day one.
func (w *Writer) ResyncSnapshot(rw http.ResponseWriter, snapshot domain.UserSnapshot, ttl time.Duration) error {
	return w.writeSnapshot(rw, snapshot, ttl)
}

// Clear expires both cookies on the client.
func (w *Writer) Clear(rw http.ResponseWriter) {
	for _, name := range []string{SessionCookie, UserCookie} {
		c := w.cookie(name, "", 0)
		c.Expires = time.Unix(0, 0)
		c.MaxAge = -1
		http.SetCookie(rw, c)
	}
}

func (w *Writer) writeSnapshot(rw http.ResponseWriter, snapshot domain.UserSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	// Cookie octets cannot carry quotes or commas; percent-encode the JSON.
	http.SetCookie(rw, w.cookie(UserCookie, url.QueryEscape(string(payload)), ttl))
	return nil
}
