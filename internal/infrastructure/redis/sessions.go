package redis

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionRepo holds the server-side session record for each user: one key per
// user whose presence (and remaining TTL) is the source of truth for trust.
// The record value is the issued token, so a superseded login's token can be
// told apart from the current one.
type SessionRepo struct {
	client *goredis.Client
	window time.Duration
}

func NewSessionRepo(client *goredis.Client, window time.Duration) *SessionRepo {
	return &SessionRepo{client: client, window: window}
}

func sessionKey(userID string) string { return sessionPrefix + userID }

// Put anchors a fresh session window for userID. Overwrites any prior record;
// a new login supersedes the old one.
func (r *SessionRepo) Put(ctx context.Context, userID, token string) error {
	if err := r.client.Set(ctx, sessionKey(userID), token, r.window).Err(); err != nil {
		return wrapErr("set session", err)
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		return "", wrapErr("get session", err)
	}
	return token, nil
}

// TTL returns the remaining session lifetime, 0 when no record exists.
// Reads never extend the window: the 90-day anchor is creation time, not
// last activity.
func (r *SessionRepo) TTL(ctx context.Context, userID string) (time.Duration, error) {
	d, err := r.client.TTL(ctx, sessionKey(userID)).Result()
	if err != nil {
		return 0, wrapErr("ttl session", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return wrapErr("del session", err)
	}
	return nil
}

// Scan walks the full keyspace and returns the user ids with a live session
// record. Administrative utility; the common revocation path is a single
// Delete, never a scan.
func (r *SessionRepo) Scan(ctx context.Context) ([]string, error) {
	var (
		userIDs []string
		cursor  uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, sessionPrefix+"*", 100).Result()
		if err != nil {
			return nil, wrapErr("scan sessions", err)
		}
		for _, k := range keys {
			userIDs = append(userIDs, strings.TrimPrefix(k, sessionPrefix))
		}
		cursor = next
		if cursor == 0 {
			return userIDs, nil
		}
	}
}
