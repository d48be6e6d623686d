package jwtx

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// JWK represents a public key in JSON Web Key format (RFC 7517). Fields for
// key types we don't verify are still decoded so ResetFromJWKS can skip
// them by kty instead of choking on them.
type JWK struct {
	Kty string `json:"kty"`           // key type: "EC", "RSA", "OKP"
	Use string `json:"use,omitempty"` // what the key is for: "sig", "enc"
	Alg string `json:"alg,omitempty"` // algorithm: "ES256", "RS256", etc.
	Kid string `json:"kid,omitempty"` // key ID

	Crv string `json:"crv,omitempty"` // curve: "P-256" for ES256
	X   string `json:"x,omitempty"`   // base64url x-coordinate
	Y   string `json:"y,omitempty"`   // base64url y-coordinate
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewES256JWK builds a JWK for an ECDSA P-256 public key.
func NewES256JWK(kid, use, alg string, pub *ecdsa.PublicKey) JWK {
	// P-256 coordinates are 32 bytes each; pad for consistent encoding.
	xBytes := pub.X.Bytes()
	yBytes := pub.Y.Bytes()

	x := make([]byte, 32)
	y := make([]byte, 32)
	copy(x[32-len(xBytes):], xBytes)
	copy(y[32-len(yBytes):], yBytes)

	return JWK{
		Kty: "EC",
		Use: use,
		Alg: alg,
		Kid: kid,
		Crv: "P-256",
		X:   base64.RawURLEncoding.EncodeToString(x),
		Y:   base64.RawURLEncoding.EncodeToString(y),
	}
}

// FetchJWKS retrieves a JWKS document from the identity provider.
func FetchJWKS(ctx context.Context, client *http.Client, url string) (JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return JWKS{}, fmt.Errorf("jwtx: build JWKS request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return JWKS{}, fmt.Errorf("jwtx: fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return JWKS{}, fmt.Errorf("jwtx: fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return JWKS{}, fmt.Errorf("jwtx: decode JWKS: %w", err)
	}

	return jwks, nil
}

// LoadJWKSFile reads a JWKS document from disk. Useful for air-gapped
// deployments and tests that pin the provider's keys.
func LoadJWKSFile(path string) (JWKS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return JWKS{}, fmt.Errorf("jwtx: read JWKS file: %w", err)
	}

	var jwks JWKS
	if err := json.Unmarshal(data, &jwks); err != nil {
		return JWKS{}, fmt.Errorf("jwtx: parse JWKS file: %w", err)
	}

	return jwks, nil
}
