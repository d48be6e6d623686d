// Package memory provides an in-process Store for tests and local
// development. It honours the same contract as the persistent drivers,
// takes an injectable clock for deterministic expiry, and exposes a manual
// sweep so tests can assert purge behaviour without waiting for a timer.
package memory

import (
	"context"
	"sync"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/merchkit/checkout/pkg/clockx"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	sessions *sessionsRepo
}

// NewStore creates an empty in-memory store. A nil clock falls back to the
// system clock.
func NewStore(clk clockx.Clock) *Store {
	if clk == nil {
		clk = clockx.Default()
	}
	return &Store{
		sessions: &sessionsRepo{
			clk:   clk,
			items: make(map[string]domain.AuthenticationSession),
		},
	}
}

func (s *Store) Sessions() store.Sessions { return s.sessions }

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

// Sweep removes all expired records immediately and returns how many were
// dropped. Production backends purge via native TTL; tests call this to get
// the same effect deterministically.
func (s *Store) Sweep() int {
	return s.sessions.sweep()
}

var _ store.Sessions = (*sessionsRepo)(nil)

type sessionsRepo struct {
	mu    sync.RWMutex
	clk   clockx.Clock
	items map[string]domain.AuthenticationSession
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.AuthenticationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[s.ID]; ok {
		return store.ErrAlreadyExists
	}
	r.items[s.ID] = s
	return nil
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.AuthenticationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return domain.AuthenticationSession{}, store.ErrNotFound
	}

	// Lapsed records read as absent even before a sweep removes them,
	// mirroring the eventually-consistent purge of a TTL-backed store.
	if !r.clk.Now().Before(s.ExpiresAt) {
		return domain.AuthenticationSession{}, store.ErrNotFound
	}

	return s, nil
}

func (r *sessionsRepo) UpdateSessionStatus(ctx context.Context, id string, expected, next domain.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return store.ErrNotFound
	}
	if s.Status != expected {
		return store.ErrStatusConflict
	}

	s.Status = next
	if next == domain.SessionStatusUsed {
		now := r.clk.Now()
		s.UsedAt = &now
	}
	r.items[id] = s
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	r.sweep()
	return nil
}

func (r *sessionsRepo) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clk.Now()
	removed := 0
	for id, s := range r.items {
		if !now.Before(s.ExpiresAt) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}
