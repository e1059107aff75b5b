package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quranara/api/internal/domain"
	"github.com/quranara/api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Store is the persistent user collaborator.
type Store interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ScanPage(ctx context.Context, limit int32, cursor, search string) ([]domain.User, string, error)
}

// BanStore holds the permanent phone block list.
type BanStore interface {
	Put(ctx context.Context, b *domain.Ban) error
	Get(ctx context.Context, banID string) (*domain.Ban, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Ban, error)
	Delete(ctx context.Context, banID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Ban, string, error)
}

// SessionRevoker invalidates a user's server-side session record.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateAccount(ctx context.Context, userID string, req domain.UpdateAccountRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, past, next string) error
	Ban(ctx context.Context, userID string) error
	Unban(ctx context.Context, banID string) error
	List(ctx context.Context, limit int32, cursor, search string) ([]domain.User, string, error)
	ListBans(ctx context.Context, limit int32, cursor string) ([]domain.Ban, string, error)
}

type service struct {
	users   Store
	bans    BanStore
	revoker SessionRevoker
}

func NewService(users Store, bans BanStore, revoker SessionRevoker) Service {
	return &service{users: users, bans: bans, revoker: revoker}
}

// Signup creates an account for a phone number that passed OTP verification.
// Blocked phones are refused with a generic forbidden.
func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	_, err := s.bans.GetByPhone(ctx, req.Phone)
	if err == nil {
		return nil, fmt.Errorf("this account has been blocked: %w", domain.ErrForbidden)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.GetByPhone(ctx, req.Phone); err == nil {
		return nil, fmt.Errorf("user already exists with this information: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Phone:        req.Phone,
		FullName:     req.FullName,
		Username:     req.FullName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *service) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.users.GetByPhone(ctx, phone)
}

func (s *service) UpdateAccount(ctx context.Context, userID string, req domain.UpdateAccountRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["fullname"] = *req.FullName
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Profile != nil {
		updates["profile"] = *req.Profile
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.users.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

func (s *service) ChangePassword(ctx context.Context, userID, past, next string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(past)); err != nil {
		return fmt.Errorf("past password is not matched: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)})
}

// Ban blocks the user's phone and revokes their session before returning, so
// the next authenticated request fails even with an unexpired token.
func (s *service) Ban(ctx context.Context, userID string) error {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"is_banned": true}); err != nil {
		return err
	}
	b := &domain.Ban{
		BanID:     id.New(),
		Phone:     u.Phone,
		UserID:    u.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.bans.Put(ctx, b); err != nil {
		return err
	}
	return s.revoker.RevokeAll(ctx, userID)
}

// Unban lifts the phone block. The session record is revoked here too: any
// session that slipped in while the flag and the ban record disagreed must
// not survive the unban.
func (s *service) Unban(ctx context.Context, banID string) error {
	b, err := s.bans.Get(ctx, banID)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, b.UserID, map[string]interface{}{"is_banned": false}); err != nil {
		return err
	}
	if err := s.bans.Delete(ctx, banID); err != nil {
		return err
	}
	return s.revoker.RevokeAll(ctx, b.UserID)
}

func (s *service) List(ctx context.Context, limit int32, cursor, search string) ([]domain.User, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.ScanPage(ctx, limit, cursor, search)
}

func (s *service) ListBans(ctx context.Context, limit int32, cursor string) ([]domain.Ban, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bans.ScanPage(ctx, limit, cursor)
}
