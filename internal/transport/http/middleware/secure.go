package middleware

import (
	"crypto/subtle"
	"net/http"
)

const gatewayHeader = "X-Quranara-Secret"

// Secure returns middleware that only admits requests relayed by the known
// frontend: the Origin header must match and the shared secret header must be
// present. Both values come from configuration; TLS termination and anything
// stronger live outside this process.
func Secure(frontendURL, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Origin") != frontendURL {
				writeJSONError(w, http.StatusForbidden, "you don't have authorization to access this server")
				return
			}
			got := r.Header.Get(gatewayHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeJSONError(w, http.StatusForbidden, "you don't have authorization to access this server")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
