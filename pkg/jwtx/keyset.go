package jwtx

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"errors"
	"math/big"
	"sync"
)

var (
	ErrNoKey        = errors.New("jwtx: key not found")
	ErrNoUsableKeys = errors.New("jwtx: no usable ES256 keys in set")
)

// KeySet holds the identity provider's public verification keys in memory,
// indexed by kid. It's thread-safe so a background refresh can swap keys
// while request handlers verify tokens.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]*ecdsa.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{
		pub: make(map[string]*ecdsa.PublicKey),
	}
}

// AddSigner registers a Signer's public JWK into the KeySet.
func (k *KeySet) AddSigner(s Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds an EC P-256 JWK to the KeySet.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := parseECJWK(j)
	if err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub[j.Kid] = key
	return nil
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (*ecdsa.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}

// ResetFromJWKS replaces all keys from a fetched JWKS document. Key types
// other than EC P-256 are skipped; the provider may publish RSA keys for
// consumers we are not. Fails only when no usable key remains.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	newMap := make(map[string]*ecdsa.PublicKey, len(jwks.Keys))
	for _, j := range jwks.Keys {
		if j.Kty != "EC" || j.Crv != "P-256" {
			continue
		}
		key, err := parseECJWK(j)
		if err != nil {
			return err
		}
		newMap[j.Kid] = key
	}

	if len(newMap) == 0 {
		return ErrNoUsableKeys
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub = newMap

	return nil
}

// parseECJWK converts an EC P-256 JWK into an *ecdsa.PublicKey.
func parseECJWK(j JWK) (*ecdsa.PublicKey, error) {
	if j.Kty != "EC" {
		return nil, errors.New("jwtx: unsupported kty " + j.Kty)
	}
	if j.Crv != "P-256" {
		return nil, errors.New("jwtx: unsupported EC curve " + j.Crv)
	}

	xb, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, err
	}
	yb, err := base64.RawURLEncoding.DecodeString(j.Y)
	if err != nil {
		return nil, err
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}, nil
}
