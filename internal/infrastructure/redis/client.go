package redis

import (
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/quranara/api/internal/config"
	"github.com/quranara/api/internal/domain"
)

// NewClient creates a Redis client from configuration. The server is the
// authoritative store for OTPs and session records; TTL expiry happens
// server-side.
func NewClient(cfg *config.Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// wrapErr maps go-redis errors onto domain sentinels. A missing key is
// domain.ErrNotFound; anything else is a transport failure and surfaces as
// domain.ErrUnavailable so callers can distinguish "absent" from "unreachable".
func wrapErr(op string, err error) error {
	if errors.Is(err, goredis.Nil) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrUnavailable)
}
