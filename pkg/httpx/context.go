package httpx

import "context"

type ctxKey string

const (
	// CtxKeyShopper carries the resolved shopper Identity for a request.
	CtxKeyShopper ctxKey = "shopper"
)

// Identity describes the shopper making a request: a registered customer
// (CustomerID set) or a guest (AnonymousID set). The identity middleware
// guarantees exactly one side is populated.
type Identity struct {
	CustomerID  string
	AnonymousID string
}

// IsCustomer reports whether the identity belongs to a registered customer.
func (id Identity) IsCustomer() bool { return id.CustomerID != "" }

// IsAnonymous reports whether the identity belongs to a guest shopper.
func (id Identity) IsAnonymous() bool { return id.AnonymousID != "" }

// IsZero reports whether no shopper identity was resolved.
func (id Identity) IsZero() bool { return id.CustomerID == "" && id.AnonymousID == "" }

// ContextWithIdentity returns a context carrying the shopper identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, CtxKeyShopper, id)
}

// IdentityFromContext returns the shopper identity resolved by the
// identity middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyShopper).(Identity)
	return id, ok
}
