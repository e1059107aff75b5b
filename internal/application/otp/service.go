package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/quranara/api/internal/domain"
)

// Store is the TTL-backed code store keyed by phone number.
type Store interface {
	Put(ctx context.Context, phone, code string) error
	Get(ctx context.Context, phone string) (string, error)
	TTL(ctx context.Context, phone string) (time.Duration, error)
	Delete(ctx context.Context, phone string) error
}

// SMSSender delivers the generated code to the phone.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Status reports whether a live code exists for a phone and how long it has
// left; clients use it to drive resend cooldowns. Non-consuming.
type Status struct {
	Expired bool `json:"expired"`
	TTL     int  `json:"ttl"`
}

// VerifyResult is the outcome of a verification attempt. Expired means no
// live code was found; Matched means the code was consumed.
type VerifyResult struct {
	Expired bool `json:"expired"`
	Matched bool `json:"matched"`
}

type Service interface {
	Request(ctx context.Context, phone string) error
	Status(ctx context.Context, phone string) (*Status, error)
	Verify(ctx context.Context, phone, code string) (*VerifyResult, error)
}

type service struct {
	store Store
	sms   SMSSender
}

func NewService(store Store, sms SMSSender) Service {
	return &service{store: store, sms: sms}
}

// Request generates a fresh code and stores it under the phone's key,
// overwriting any earlier code and resetting its TTL.
func (s *service) Request(ctx context.Context, phone string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, phone, code); err != nil {
		return err
	}
	if s.sms != nil {
		if err := s.sms.SendSMS(ctx, phone, "Your verification code: "+code); err != nil {
			return fmt.Errorf("send otp sms: %w", err)
		}
	}
	return nil
}

func (s *service) Status(ctx context.Context, phone string) (*Status, error) {
	_, err := s.store.Get(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return &Status{Expired: true, TTL: 0}, nil
	}
	if err != nil {
		return nil, err
	}
	ttl, err := s.store.TTL(ctx, phone)
	if err != nil {
		return nil, err
	}
	return &Status{Expired: false, TTL: int(ttl.Seconds())}, nil
}

// Verify compares the submitted code against the stored one. A match consumes
// the code; a mismatch leaves it intact so the client may retry within the TTL
// window. Store failures propagate — an unreachable store is never reported
// as an expired code.
func (s *service) Verify(ctx context.Context, phone, code string) (*VerifyResult, error) {
	saved, err := s.store.Get(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return &VerifyResult{Expired: true, Matched: false}, nil
	}
	if err != nil {
		return nil, err
	}
	if saved != code {
		return &VerifyResult{Expired: false, Matched: false}, nil
	}
	if err := s.store.Delete(ctx, phone); err != nil {
		return nil, err
	}
	return &VerifyResult{Expired: false, Matched: true}, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
