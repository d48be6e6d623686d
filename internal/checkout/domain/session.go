package domain

import "time"

// SessionTTL is the fixed lifetime of an authentication session. The window
// covers the shopper completing an out-of-band 3DS challenge; it is not
// configurable per session.
const SessionTTL = 30 * time.Minute

// SessionStatus is the stored lifecycle state of an authentication session.
// Expiry is not a status: it is derived from ExpiresAt at read time.
type SessionStatus string

const (
	// SessionStatusPending means the session is waiting for the shopper to
	// complete the challenge.
	SessionStatusPending SessionStatus = "pending"
	// SessionStatusUsed means a completion attempt has consumed the session.
	// The transition pending -> used happens at most once and never reverses.
	SessionStatusUsed SessionStatus = "used"
)

// TokenType describes the kind of payment instrument reference a session
// carries.
type TokenType string

const (
	// TokenTypeTransient is a one-time-use token minted for this checkout.
	TokenTypeTransient TokenType = "transient"
	// TokenTypeStored references a saved payment method on the processor side.
	TokenTypeStored TokenType = "stored"
)

// Valid reports whether t is one of the known token types.
func (t TokenType) Valid() bool {
	return t == TokenTypeTransient || t == TokenTypeStored
}

// BillingDetails is the billing contact and address frozen into a session
// at creation time.
type BillingDetails struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	Locality     string `json:"locality"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"` // ISO 3166-1 alpha-2
}

// ShippingDetails is the optional delivery address. Same shape as billing
// minus the contact specifics.
type ShippingDetails struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	Locality     string `json:"locality"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// SetupData is the opaque payload the processor returned from the 3DS setup
// phase. It is stored verbatim and replayed on authorization; this service
// never interprets it.
type SetupData struct {
	ReferenceID        string `json:"reference_id,omitempty"`
	AuthenticationInfo string `json:"authentication_info,omitempty"`
}

// AuthenticationSession is the frozen checkout context bridging the initial
// capture call and the post-challenge completion call. Sessions are immutable
// after creation except for the single pending -> used status transition,
// which only the session service performs.
type AuthenticationSession struct {
	ID string `json:"id"`

	// Exactly one of CustomerID/AnonymousID is set; it records the shopper
	// that created the session and anchors ownership checks.
	CustomerID  string `json:"customer_id,omitempty"`
	AnonymousID string `json:"anonymous_id,omitempty"`

	CartID      string `json:"cart_id"`
	CartVersion int64  `json:"cart_version"`

	// PaymentToken is sensitive: never logged raw, only as a fingerprint.
	PaymentToken string    `json:"payment_token"`
	TokenType    TokenType `json:"token_type"`

	TotalAmount Money `json:"total_amount"`

	Billing  BillingDetails   `json:"billing"`
	Shipping *ShippingDetails `json:"shipping,omitempty"`
	Setup    *SetupData       `json:"setup,omitempty"`

	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	UsedAt    *time.Time    `json:"used_at,omitempty"`
}

// Alive reports whether the session is retrievable at the given instant:
// still pending and not yet past its expiry. Callers must treat a dead
// session exactly like a missing one.
func (s *AuthenticationSession) Alive(now time.Time) bool {
	return s.Status == SessionStatusPending && now.Before(s.ExpiresAt)
}

// Owner returns the owning shopper as a namespaced reference such as
// "customer:123" or "anonymous:9f2", suitable for audit events.
func (s *AuthenticationSession) Owner() string {
	if s.CustomerID != "" {
		return "customer:" + s.CustomerID
	}
	return "anonymous:" + s.AnonymousID
}
