package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/merchkit/checkout/internal/checkout/domain"
)

// CallerIdentity is the authenticated shopper attempting an operation.
// Exactly one side is set, mirroring how sessions record their owner.
type CallerIdentity struct {
	CustomerID  string
	AnonymousID string
}

// Ref returns the caller as a namespaced reference for audit events.
func (c CallerIdentity) Ref() string {
	switch {
	case c.CustomerID != "":
		return "customer:" + c.CustomerID
	case c.AnonymousID != "":
		return "anonymous:" + c.AnonymousID
	default:
		return "unauthenticated"
	}
}

// RequestMeta carries the transport-level facts security events record.
type RequestMeta struct {
	SourceAddress string
	UserAgent     string
}

// Validator enforces the guards that run between retrieving a session and
// consuming it: ownership first, then cart freshness.
type Validator struct {
	// Audit receives security events. Ownership violations are potential
	// session hijacking and always log at Error regardless of level config.
	Audit *slog.Logger
}

func (v *Validator) audit() *slog.Logger {
	if v.Audit != nil {
		return v.Audit
	}
	return slog.Default()
}

// ValidateOwnership confirms the caller is the shopper recorded on the
// session. The recorded side decides which identity is compared: a
// customer-owned session never matches an anonymous caller and vice versa.
// A mismatch emits an audit event before returning ErrOwnershipViolation.
func (v *Validator) ValidateOwnership(ctx context.Context, session domain.AuthenticationSession, caller CallerIdentity, meta RequestMeta) error {
	var match bool
	switch {
	case session.CustomerID != "":
		match = caller.CustomerID == session.CustomerID
	case session.AnonymousID != "":
		match = caller.AnonymousID == session.AnonymousID
	}
	if match {
		return nil
	}

	v.audit().ErrorContext(ctx, "session ownership violation",
		slog.String("event_type", "ownership_violation"),
		slog.String("severity", "high"),
		slog.String("session_id", session.ID),
		slog.String("recorded_owner", session.Owner()),
		slog.String("attempted_by", caller.Ref()),
		slog.Time("timestamp", time.Now().UTC()),
		slog.String("source_address", meta.SourceAddress),
		slog.String("user_agent", meta.UserAgent),
	)
	return ErrOwnershipViolation
}

// ValidateCartFreshness confirms the cart the session froze is still the
// cart being purchased. Pure: no I/O, no clock.
func (v *Validator) ValidateCartFreshness(session domain.AuthenticationSession, cart domain.Cart) error {
	if cart.Version != session.CartVersion {
		return NewUnprocessableError(ReasonCartModified,
			"cart %s changed since authentication started (version %d, session has %d)",
			cart.ID, cart.Version, session.CartVersion)
	}
	if !cart.CheckoutEligible() {
		return NewUnprocessableError(ReasonCartInvalid, "cart %s is not eligible for checkout", cart.ID)
	}
	return nil
}
