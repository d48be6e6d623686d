// Package redis implements the session store on Redis. Each session lives in
// a hash under threeds:session:<id>; native key expiry handles the purge and
// two small Lua scripts keep create and the status transition atomic.
package redis

import (
	"context"
	"time"

	"github.com/merchkit/checkout/internal/checkout/store"

	goredis "github.com/redis/go-redis/v9"
)

type Store struct {
	client *goredis.Client
}

var _ store.Store = (*Store)(nil)

func NewStore(addr, password string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error { return s.client.Close() }

// Ping verifies the Redis connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return store.NewStorageError("redis: ping", err)
	}
	return nil
}

// ApplyMigrations is a no-op: Redis needs no schema and native key expiry
// handles retention.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Sessions() store.Sessions { return &sessionsRepo{client: s.client} }
