package jwtx_test

import (
	"testing"
	"time"

	"github.com/merchkit/checkout/pkg/cryptox"
	"github.com/merchkit/checkout/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://id.example-merchant.test"

func TestES256SignAndVerifyCustomerToken(t *testing.T) {
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	kid := "shop-key-1"

	signer, err := jwtx.NewSignerES256(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, "ES256", signer.Alg())
	require.Equal(t, kid, signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewCustomerClaims(
		"customer-789",
		10*time.Minute,
		exampleIssuer,
		[]string{"checkout"},
		now,
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))
	require.True(t, keyset.IsReady())

	verifier := jwtx.NewVerifierES256(keyset, exampleIssuer, []string{"checkout"})

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "customer-789", parsed.Subject)
	require.Empty(t, parsed.AnonymousID)
	require.NotEmpty(t, parsed.ID) // JTI should be set
}

func TestES256VerifyAnonymousToken(t *testing.T) {
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerES256("k1", pemKey)
	require.NoError(t, err)

	claims := jwtx.NewAnonymousClaims(
		"anon-42",
		10*time.Minute,
		exampleIssuer,
		nil,
		time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	verifier := jwtx.NewVerifierES256(keyset, exampleIssuer, nil)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Empty(t, parsed.Subject)
	require.Equal(t, "anon-42", parsed.AnonymousID)
}

func TestES256VerifyFailsForWrongIssuer(t *testing.T) {
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerES256("k1", pemKey)
	require.NoError(t, err)

	claims := jwtx.NewCustomerClaims(
		"customer-999", 1*time.Minute, exampleIssuer, nil, time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	verifier := jwtx.NewVerifierES256(keyset, "wrong-issuer", nil)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestES256VerifyFailsForUnknownKey(t *testing.T) {
	pemKey1, _ := cryptox.GenerateES256Key()
	signer1, _ := jwtx.NewSignerES256("key1", pemKey1)

	pemKey2, _ := cryptox.GenerateES256Key()
	signer2, _ := jwtx.NewSignerES256("key2", pemKey2)

	claims := jwtx.NewCustomerClaims(
		"customer-1", 1*time.Minute, exampleIssuer, nil, time.Now().UTC(),
	)
	token, _ := signer1.Sign(claims)

	// Keyset only contains key2
	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer2))

	verifier := jwtx.NewVerifierES256(keyset, exampleIssuer, nil)

	_, err := verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}

func TestES256VerifyFailsForExpiredToken(t *testing.T) {
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerES256("k1", pemKey)
	require.NoError(t, err)

	// Issued an hour ago with a one-minute TTL
	claims := jwtx.NewCustomerClaims(
		"customer-1", 1*time.Minute, exampleIssuer, nil,
		time.Now().UTC().Add(-1*time.Hour),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	verifier := jwtx.NewVerifierES256(keyset, exampleIssuer, nil)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestES256ValidateFailsForInvalidKey(t *testing.T) {
	_, err := jwtx.NewSignerES256("test", []byte("not-a-pem-key"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid PEM")
}

func TestResetFromJWKSSkipsNonECKeys(t *testing.T) {
	pemKey, err := cryptox.GenerateES256Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerES256("ec-key", pemKey)
	require.NoError(t, err)

	jwks := jwtx.JWKS{Keys: []jwtx.JWK{
		{Kty: "RSA", Kid: "rsa-key", Alg: "RS256"},
		signer.PublicJWK(),
	}}

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.ResetFromJWKS(jwks))

	_, err = keyset.Get("ec-key")
	require.NoError(t, err)

	_, err = keyset.Get("rsa-key")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}

func TestResetFromJWKSFailsWhenNoUsableKeys(t *testing.T) {
	jwks := jwtx.JWKS{Keys: []jwtx.JWK{
		{Kty: "RSA", Kid: "rsa-key", Alg: "RS256"},
	}}

	keyset := jwtx.NewKeySet()
	err := keyset.ResetFromJWKS(jwks)
	require.ErrorIs(t, err, jwtx.ErrNoUsableKeys)
}
