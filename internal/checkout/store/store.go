package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/merchkit/checkout/internal/checkout/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStatusConflict is returned by UpdateSessionStatus when the record
	// exists but its status does not match the expected value. This is how a
	// losing completion attempt learns another request consumed the session.
	ErrStatusConflict = errors.New("store: status conflict")
)

// Store is the root data access interface. Concrete drivers (redis, sqlite,
// memory) implement this. The driver is chosen once at startup; nothing else
// in the service knows which backend is underneath.
type Store interface {
	Sessions() Sessions

	// ApplyMigrations prepares the backend schema. Drivers without a schema
	// (redis, memory) implement it as a no-op so app wiring stays uniform.
	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend connection is still alive.
	Ping(ctx context.Context) error
}

// Sessions is keyed storage of authentication session records. It stores and
// transitions raw records; interpreting liveness (expiry, used-ness) is the
// session service's job. The one exception: a backend may physically purge
// expired records via native TTL, and because that purge is eventually
// consistent, GetSession must treat a lapsed-but-not-yet-purged record as
// absent so callers can't observe the purge lag.
type Sessions interface {
	// CreateSession stores a new record keyed by session id. Returns
	// ErrAlreadyExists if the id is already present; ids are generated to
	// avoid collision, so hitting this indicates a caller bug.
	CreateSession(ctx context.Context, s domain.AuthenticationSession) error

	// GetSession returns the stored record, ErrNotFound if it was never
	// stored, already purged, or past its expiry.
	GetSession(ctx context.Context, id string) (domain.AuthenticationSession, error)

	// UpdateSessionStatus atomically transitions status only if the current
	// stored status equals expected. This must be a single atomic operation
	// at the storage layer, not read-then-write: it is the sole concurrency
	// guard when two requests race to consume the same session. Returns
	// ErrNotFound when the record is absent and ErrStatusConflict when the
	// stored status did not match.
	UpdateSessionStatus(ctx context.Context, id string, expected, next domain.SessionStatus) error

	// DeleteSession removes the record and reports whether something was
	// actually removed. Deleting an absent id is not an error.
	DeleteSession(ctx context.Context, id string) (bool, error)

	// DeleteExpiredSessions is housekeeping for backends without native
	// per-record TTL. Redis implements it as a no-op.
	DeleteExpiredSessions(ctx context.Context) error
}

// StorageError wraps backend I/O failures (connectivity, timeouts,
// throughput). It is the only error kind callers may retry; domain
// conditions (not found, status conflict) are never wrapped in it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a StorageError for the given operation.
// Returns nil when err is nil so drivers can wrap unconditionally.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a backend I/O failure.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
