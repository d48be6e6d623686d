// Package clockx provides a minimal clock capability so that anything
// time-sensitive (session expiry, TTL sweeps) can be driven by a fake
// clock in tests instead of the wall clock.
package clockx

import (
	"sync"
	"time"
)

// Clock returns the current time. Production code should take a Clock
// rather than calling time.Now directly wherever expiry decisions are made.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Default returns the production clock.
func Default() Clock { return System{} }

// Fake is a manually advanced clock for tests. The zero value is not
// usable; construct with NewFake.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake pinned to the given instant.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward by d. Negative values are allowed
// for tests that need to rewind.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set pins the fake clock to an absolute instant.
func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now.UTC()
}
