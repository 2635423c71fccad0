// Package signingtest provides throwaway signers for tests.
package signingtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"rules-service/core/signing"

	"github.com/stretchr/testify/require"
)

// KeyPEM returns a fresh P-256 private key in SEC1 PEM form.
func KeyPEM(t testing.TB) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

// NewSigner returns a local signer over a fresh key.
func NewSigner(t testing.TB) *signing.LocalSigner {
	t.Helper()
	s, err := signing.NewLocalSigner(KeyPEM(t))
	require.NoError(t, err)
	return s
}
