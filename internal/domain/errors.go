package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
//
// ErrUnavailable is reserved for transient store/network failures. It must never
// be collapsed into ErrNotFound: treating an unreachable cache as "no OTP" or
// "no session" would silently bypass the checks that depend on it.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("temporarily unavailable")
)
