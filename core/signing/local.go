package signing

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/minio/sha256-simd"
)

// LocalSigner signs with an in-process ECDSA P-256 key.
type LocalSigner struct {
	key       *ecdsa.PrivateKey
	publicKey string
}

// LoadLocalSigner reads a PEM private key from path.
func LoadLocalSigner(path string) (*LocalSigner, error) {
	if path == "" {
		return nil, errors.New("signing key file is not configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	return NewLocalSigner(data)
}

// NewLocalSigner parses a SEC1 ("EC PRIVATE KEY") or PKCS#8 ("PRIVATE KEY")
// PEM block.
func NewLocalSigner(pemData []byte) (*LocalSigner, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("no PEM block found in signing key")
	}

	var key *ecdsa.PrivateKey
	switch block.Type {
	case "EC PRIVATE KEY":
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		key = k
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		ec, ok := k.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("signing key is not an ECDSA key")
		}
		key = ec
	default:
		return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
	}

	if key.Curve != elliptic.P256() {
		return nil, errors.New("signing key must use curve P-256")
	}

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &LocalSigner{key: key, publicKey: base64.StdEncoding.EncodeToString(der)}, nil
}

// Sign signs the SHA-256 digest of the hash string.
func (s *LocalSigner) Sign(_ context.Context, hash string) (string, error) {
	digest := sha256.Sum256([]byte(hash))
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// PublicKey returns the base64 PKIX DER public key.
func (s *LocalSigner) PublicKey(_ context.Context) (string, error) {
	return s.publicKey, nil
}
