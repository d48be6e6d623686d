// Package jwtx verifies shopper identity tokens issued by the merchant's
// identity provider. Only ES256 (ECDSA P-256 with SHA-256) is supported;
// the provider's JWKS may carry other key types, which are skipped when
// the key set is loaded.
package jwtx

import "errors"

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)
