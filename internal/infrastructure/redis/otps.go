package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// OtpRepo stores one-time codes keyed by phone number, one live code per
// phone. Writing a new code overwrites the old one and resets its TTL.
type OtpRepo struct {
	client *goredis.Client
	expiry time.Duration
}

func NewOtpRepo(client *goredis.Client, expiry time.Duration) *OtpRepo {
	return &OtpRepo{client: client, expiry: expiry}
}

func otpKey(phone string) string { return "otp:" + phone }

func (r *OtpRepo) Put(ctx context.Context, phone, code string) error {
	if err := r.client.Set(ctx, otpKey(phone), code, r.expiry).Err(); err != nil {
		return wrapErr("set otp", err)
	}
	return nil
}

func (r *OtpRepo) Get(ctx context.Context, phone string) (string, error) {
	code, err := r.client.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		return "", wrapErr("get otp", err)
	}
	return code, nil
}

// TTL returns the remaining lifetime of the code for phone. A key that
// expired between calls reports as absent.
func (r *OtpRepo) TTL(ctx context.Context, phone string) (time.Duration, error) {
	d, err := r.client.TTL(ctx, otpKey(phone)).Result()
	if err != nil {
		return 0, wrapErr("ttl otp", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (r *OtpRepo) Delete(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, otpKey(phone)).Err(); err != nil {
		return wrapErr("del otp", err)
	}
	return nil
}
