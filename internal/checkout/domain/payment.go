package domain

// DeclineReason is the closed set of business decline outcomes the payment
// processor reports. The orchestration maps these 1:1 onto validation codes
// and never invents finer-grained reasons.
type DeclineReason string

const (
	DeclineGeneric           DeclineReason = "declined"
	DeclineInsufficientFunds DeclineReason = "insufficient_funds"
	DeclineCardExpired       DeclineReason = "card_expired"
)

// ChallengeResult is the challenge-completion data the shopper's browser
// brings back from the 3DS provider. Passed through to authorization
// verbatim; the legacy fields cover 3DS1 fallback flows.
type ChallengeResult struct {
	TransactionID string `json:"transaction_id"`
	Cryptogram    string `json:"cryptogram"`
	ECI           string `json:"eci"`

	// Legacy 3DS1 fields, optional.
	XID           string `json:"xid,omitempty"`
	CavvAlgorithm string `json:"cavv_algorithm,omitempty"`
}

// SetupChallenge is the challenge-presentation payload the processor returns
// when it requires 3DS. Opaque to this service: it is handed back to the
// shopper's browser and its reference/auth info is frozen into the session.
type SetupChallenge struct {
	ReferenceID        string `json:"reference_id"`
	AuthenticationInfo string `json:"authentication_info,omitempty"`
	ChallengeURL       string `json:"challenge_url,omitempty"`
}

// AuthorizationRequest is what the payment processor needs to authorize a
// payment: the instrument and amount, plus the challenge result when the
// shopper has already completed 3DS. Challenge is nil on the initial
// attempt, where the processor may answer with a challenge demand instead.
type AuthorizationRequest struct {
	PaymentToken string    `json:"payment_token"`
	TokenType    TokenType `json:"token_type"`

	// CustomerID is required by the processor for stored-token charges so it
	// can resolve the vault entry; empty for transient tokens.
	CustomerID string `json:"customer_id,omitempty"`

	Amount  Money          `json:"amount"`
	Billing BillingDetails `json:"billing"`

	Setup     *SetupData       `json:"setup,omitempty"`
	Challenge *ChallengeResult `json:"challenge,omitempty"`
}

// AuthorizationResult is the processor's decision. Exactly one of the three
// outcomes holds: Authorized, Requires3DS (with Setup populated), or a
// decline (DeclineReason set).
type AuthorizationResult struct {
	Authorized        bool            `json:"authorized"`
	Requires3DS       bool            `json:"requires_3ds,omitempty"`
	Setup             *SetupChallenge `json:"setup,omitempty"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	AuthorizationCode string          `json:"authorization_code,omitempty"`
	DeclineReason     DeclineReason   `json:"decline_reason,omitempty"`
}
