package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quranara/api/internal/domain"
	jwtinfra "github.com/quranara/api/internal/infrastructure/jwt"
)

// Registry is the server-side session record store: one TTL-bound key per
// user whose presence is the source of truth for trust.
type Registry interface {
	Put(ctx context.Context, userID, token string) error
	Get(ctx context.Context, userID string) (string, error)
	TTL(ctx context.Context, userID string) (time.Duration, error)
	Delete(ctx context.Context, userID string) error
	Scan(ctx context.Context) ([]string, error)
}

// TokenProvider signs and verifies the self-contained session tokens.
type TokenProvider interface {
	Sign(userID, role string) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

// UserStore is the user-lookup collaborator owned by the domain layer.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// LoginResult carries everything the transport needs to write credential
// cookies: the token, the user, and the registry window the cookie expiries
// must be derived from.
type LoginResult struct {
	Token string
	User  *domain.User
	TTL   time.Duration
}

type Service interface {
	// Login issues a token for an already-authenticated user and anchors a
	// fresh session record. A prior session for the same user is superseded.
	Login(ctx context.Context, u *domain.User) (*LoginResult, error)
	// CheckSession maps a presented token to a trusted identity, or rejects.
	CheckSession(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, userID string) error
	// RemainingTTL reports the session record's remaining lifetime, 0 when
	// the record is gone.
	RemainingTTL(ctx context.Context, userID string) (time.Duration, error)
	// RevokeAll invalidates server trust for the user immediately, regardless
	// of any still-unexpired token the client holds.
	RevokeAll(ctx context.Context, userID string) error
	// ActiveUserIDs lists users with a live session record (admin utility).
	ActiveUserIDs(ctx context.Context) ([]string, error)
}

type service struct {
	registry Registry
	users    UserStore
	tokens   TokenProvider
	window   time.Duration
}

func NewService(registry Registry, users UserStore, tokens TokenProvider, window time.Duration) Service {
	return &service{registry: registry, users: users, tokens: tokens, window: window}
}

func (s *service) Login(ctx context.Context, u *domain.User) (*LoginResult, error) {
	token, err := s.tokens.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Put(ctx, u.UserID, token); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u, TTL: s.window}, nil
}

// CheckSession requires both a valid signature and a matching registry entry.
// A revoked or superseded session is rejected exactly like an invalid token,
// so callers cannot probe account status from the failure mode.
func (s *service) CheckSession(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("token rejected: %w", domain.ErrUnauthorized)
	}
	stored, err := s.registry.Get(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no session record: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if stored != token {
		return nil, fmt.Errorf("session superseded: %w", domain.ErrUnauthorized)
	}
	u, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user gone: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, fmt.Errorf("user banned: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

func (s *service) Logout(ctx context.Context, userID string) error {
	return s.registry.Delete(ctx, userID)
}

func (s *service) RemainingTTL(ctx context.Context, userID string) (time.Duration, error) {
	return s.registry.TTL(ctx, userID)
}

func (s *service) RevokeAll(ctx context.Context, userID string) error {
	// One live record per user, so revocation is a single delete.
	return s.registry.Delete(ctx, userID)
}

func (s *service) ActiveUserIDs(ctx context.Context) ([]string, error) {
	return s.registry.Scan(ctx)
}
