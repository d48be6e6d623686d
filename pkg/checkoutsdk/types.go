package checkoutsdk

import "time"

// ============================================================================
// Wire Types
// ============================================================================
//
// These mirror the service's JSON contract exactly. They are deliberately
// independent of the service's internal types so external consumers of the
// SDK never depend on internal packages.

// Money is a monetary value in minor units with an ISO 4217 currency code.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// BillingDetails is the billing contact and address for a capture.
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
	Country      string `json:"country"`
}

// ShippingDetails is the optional delivery address.
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

// Challenge is the 3DS challenge payload the shopper's browser must present
// to the authentication provider. Opaque to the SDK.
type Challenge struct {
	ReferenceID        string `json:"reference_id"`
	AuthenticationInfo string `json:"authentication_info,omitempty"`
	ChallengeURL       string `json:"challenge_url,omitempty"`
}

// ChallengeResult is what the browser brings back once the shopper finished
// the challenge.
type ChallengeResult struct {
	TransactionID string `json:"transaction_id"`
	Cryptogram    string `json:"cryptogram"`
	ECI           string `json:"eci"`
	XID           string `json:"xid,omitempty"`
	CavvAlgorithm string `json:"cavv_algorithm,omitempty"`
}

// Order is the completed purchase as returned by the capture endpoints.
type Order struct {
	ID                   string    `json:"id"`
	OrderNumber          string    `json:"order_number"`
	CartID               string    `json:"cart_id"`
	CustomerID           string    `json:"customer_id,omitempty"`
	AnonymousID          string    `json:"anonymous_id,omitempty"`
	TotalPrice           Money     `json:"total_price"`
	CreatedAt            time.Time `json:"created_at"`
	PaymentTransactionID string    `json:"payment_transaction_id,omitempty"`
}

// ============================================================================
// Request / Response Types
// ============================================================================

// CaptureRequest starts a capture for a cart. The shopper identity travels
// in headers, not in the body.
type CaptureRequest struct {
	CartID       string           `json:"cart_id"`
	PaymentToken string           `json:"payment_token"`
	TokenType    string           `json:"token_type"` // "transient" or "stored"
	Billing      BillingDetails   `json:"billing"`
	Shipping     *ShippingDetails `json:"shipping,omitempty"`
}

// ValidateCaptureRequest finishes a challenged capture.
type ValidateCaptureRequest struct {
	SessionID string          `json:"session_id"`
	Challenge ChallengeResult `json:"challenge"`
}

// Capture outcome states.
const (
	// StatusCaptured means the purchase completed and Order is set.
	StatusCaptured = "captured"
	// StatusAuthenticationRequired means the shopper must complete a 3DS
	// challenge; SessionID and Challenge are set.
	StatusAuthenticationRequired = "authentication_required"
)

// CaptureResponse is the answer to both capture operations.
type CaptureResponse struct {
	Status    string     `json:"status"`
	SessionID string     `json:"session_id,omitempty"`
	Challenge *Challenge `json:"challenge,omitempty"`
	Order     *Order     `json:"order,omitempty"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
	Store   string `json:"store,omitempty"`
}
