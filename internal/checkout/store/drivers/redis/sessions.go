package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/store"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "threeds:session:"

type sessionsRepo struct {
	client *goredis.Client
}

var _ store.Sessions = (*sessionsRepo)(nil)

func sessionKey(id string) string { return keyPrefix + id }

// createScript refuses to overwrite an existing key so a duplicate id can
// never clobber a live session.
var createScript = goredis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "data", ARGV[1], "status", ARGV[2])
redis.call("EXPIREAT", KEYS[1], ARGV[3])
return 1
`)

// transitionScript compares and moves the status field in one atomic step.
// Returns -1 when the key is missing, 0 when the current status does not
// match and 1 on success.
var transitionScript = goredis.NewScript(`
local status = redis.call("HGET", KEYS[1], "status")
if not status then
	return -1
end
if status ~= ARGV[1] then
	return 0
end
redis.call("HSET", KEYS[1], "status", ARGV[2])
if ARGV[3] ~= "" then
	redis.call("HSET", KEYS[1], "used_at", ARGV[3])
end
return 1
`)

func (r *sessionsRepo) CreateSession(ctx context.Context, session domain.AuthenticationSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}

	// The purge deadline rounds up to the next whole second so the key can
	// never vanish before the session's true expiry; reads hide it from the
	// instant it lapses.
	purgeAt := session.ExpiresAt.Unix() + 1

	n, err := createScript.Run(ctx, r.client, []string{sessionKey(session.ID)},
		data, string(session.Status), purgeAt).Int()
	if err != nil {
		return store.NewStorageError("redis: create session", err)
	}
	if n == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.AuthenticationSession, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return domain.AuthenticationSession{}, store.NewStorageError("redis: get session", err)
	}
	// HGETALL yields an empty map for a missing key rather than a nil reply.
	if len(fields) == 0 {
		return domain.AuthenticationSession{}, store.ErrNotFound
	}

	var session domain.AuthenticationSession
	if err := json.Unmarshal([]byte(fields["data"]), &session); err != nil {
		return domain.AuthenticationSession{}, fmt.Errorf("redis: decode session: %w", err)
	}
	session.Status = domain.SessionStatus(fields["status"])
	if ua := fields["used_at"]; ua != "" {
		t, err := time.Parse(time.RFC3339Nano, ua)
		if err != nil {
			return domain.AuthenticationSession{}, fmt.Errorf("redis: decode used_at: %w", err)
		}
		session.UsedAt = &t
	}

	// A lapsed key Redis has not purged yet reads as absent.
	if !time.Now().Before(session.ExpiresAt) {
		return domain.AuthenticationSession{}, store.ErrNotFound
	}
	return session, nil
}

func (r *sessionsRepo) UpdateSessionStatus(ctx context.Context, id string, expected, next domain.SessionStatus) error {
	usedAt := ""
	if next == domain.SessionStatusUsed {
		usedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	n, err := transitionScript.Run(ctx, r.client, []string{sessionKey(id)},
		string(expected), string(next), usedAt).Int()
	if err != nil {
		return store.NewStorageError("redis: update session status", err)
	}
	switch n {
	case -1:
		return store.ErrNotFound
	case 0:
		return store.ErrStatusConflict
	}
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, store.NewStorageError("redis: delete session", err)
	}
	return n > 0, nil
}

// DeleteExpiredSessions is a no-op: Redis purges lapsed keys itself via the
// deadline set on create.
func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error { return nil }
