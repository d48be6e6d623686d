package service

import (
	"context"
	"errors"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/merchkit/checkout/pkg/clockx"
	"github.com/merchkit/checkout/pkg/cryptox"
	"github.com/merchkit/checkout/pkg/idx"
	"github.com/merchkit/checkout/pkg/slogx"

	"github.com/cenkalti/backoff/v4"
)

const (
	// storageRetryInitial and storageRetryMax bound the retry window for
	// backend I/O faults. Retries never extend a request beyond a couple of
	// seconds: a checkout caller is waiting.
	storageRetryInitial = 50 * time.Millisecond
	storageRetryMax     = 2 * time.Second
)

// NewSessionParams is the checkout context frozen into a session when the
// processor demands a 3DS challenge.
type NewSessionParams struct {
	CustomerID   string
	AnonymousID  string
	CartID       string
	CartVersion  int64
	PaymentToken string
	TokenType    domain.TokenType
	TotalAmount  domain.Money
	Billing      domain.BillingDetails
	Shipping     *domain.ShippingDetails
	Setup        *domain.SetupData
}

func (p NewSessionParams) validate() error {
	hasCustomer := p.CustomerID != ""
	hasAnonymous := p.AnonymousID != ""
	if hasCustomer == hasAnonymous {
		return ErrInvalidSessionRequest
	}
	if p.CartID == "" || p.CartVersion <= 0 {
		return ErrInvalidSessionRequest
	}
	if p.PaymentToken == "" || !p.TokenType.Valid() {
		return ErrInvalidSessionRequest
	}
	if !p.TotalAmount.IsPositive() {
		return ErrInvalidSessionRequest
	}
	return nil
}

// SessionService owns the authentication session lifecycle: creation with a
// fixed TTL, liveness-uniform retrieval, the single-use transition and
// best-effort deletion. It is the only component that talks to the session
// store.
type SessionService struct {
	Store store.Store
	Clock clockx.Clock
}

func (s *SessionService) clock() clockx.Clock {
	if s.Clock != nil {
		return s.Clock
	}
	return clockx.Default()
}

// Create mints a new pending session from the given params. The lifetime is
// fixed at domain.SessionTTL from the moment of creation.
func (s *SessionService) Create(ctx context.Context, p NewSessionParams) (domain.AuthenticationSession, error) {
	if err := p.validate(); err != nil {
		return domain.AuthenticationSession{}, err
	}

	now := s.clock().Now()
	session := domain.AuthenticationSession{
		ID:           idx.New().String(),
		CustomerID:   p.CustomerID,
		AnonymousID:  p.AnonymousID,
		CartID:       p.CartID,
		CartVersion:  p.CartVersion,
		PaymentToken: p.PaymentToken,
		TokenType:    p.TokenType,
		TotalAmount:  p.TotalAmount,
		Billing:      p.Billing,
		Shipping:     p.Shipping,
		Setup:        p.Setup,
		Status:       domain.SessionStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(domain.SessionTTL),
	}

	err := retryStorage(ctx, func() error {
		return s.Store.Sessions().CreateSession(ctx, session)
	})
	if err != nil {
		return domain.AuthenticationSession{}, err
	}

	slogx.FromContext(ctx).Debug("authentication session created",
		"session_id", session.ID,
		"owner", session.Owner(),
		"cart_id", session.CartID,
		"payment_token_fp", cryptox.FingerprintToken(session.PaymentToken),
	)
	return session, nil
}

// Get retrieves a live session. Absent, lapsed and already-used sessions all
// come back as ErrSessionNotFound; callers cannot tell the cases apart.
func (s *SessionService) Get(ctx context.Context, id string) (domain.AuthenticationSession, error) {
	if id == "" {
		return domain.AuthenticationSession{}, ErrSessionNotFound
	}

	var session domain.AuthenticationSession
	err := retryStorage(ctx, func() error {
		var err error
		session, err = s.Store.Sessions().GetSession(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthenticationSession{}, ErrSessionNotFound
		}
		return domain.AuthenticationSession{}, err
	}

	// The service clock is authoritative for the expiry boundary even when
	// the backend already hides most lapsed records.
	if !session.Alive(s.clock().Now()) {
		return domain.AuthenticationSession{}, ErrSessionNotFound
	}
	return session, nil
}

// MarkUsed performs the single-use transition pending -> used. Exactly one
// caller can ever succeed for a given session; the losers get
// ErrSessionAlreadyUsed. The transition is delegated to the store's atomic
// conditional update, never a read-then-write.
func (s *SessionService) MarkUsed(ctx context.Context, id string) error {
	err := retryStorage(ctx, func() error {
		return s.Store.Sessions().UpdateSessionStatus(ctx, id,
			domain.SessionStatusPending, domain.SessionStatusUsed)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrStatusConflict):
		return ErrSessionAlreadyUsed
	case errors.Is(err, store.ErrNotFound):
		return ErrSessionNotFound
	default:
		return err
	}
}

// Delete removes a session record and reports whether one was removed.
// Deleting an absent session is not an error.
func (s *SessionService) Delete(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := retryStorage(ctx, func() error {
		var err error
		removed, err = s.Store.Sessions().DeleteSession(ctx, id)
		return err
	})
	return removed, err
}

// Ping reports whether the session store is reachable.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

// retryStorage runs op, retrying only backend I/O faults with bounded
// exponential backoff. Domain outcomes (not found, conflict, duplicate)
// pass through from the first attempt.
func retryStorage(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err != nil && !store.IsStorage(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = storageRetryInitial
	b.MaxElapsedTime = storageRetryMax
	return backoff.Retry(wrapped, backoff.WithContext(b, ctx))
}
