package signing

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/sha256-simd"
)

// ErrNoSigner is returned by operations that need a signer when none is
// configured.
var ErrNoSigner = errors.New("signing: no signer configured")

// Signer signs record hashes.
type Signer interface {
	// Sign returns the base64 signature of the hash string.
	Sign(ctx context.Context, hash string) (string, error)
	// PublicKey returns the base64 DER public key.
	PublicKey(ctx context.Context) (string, error)
}

// New builds the signer selected by cfg.Mode. It returns nil for mode none.
func New(cfg Config) (Signer, error) {
	switch cfg.Mode {
	case ModeNone, "":
		return nil, nil
	case ModeLocal:
		return LoadLocalSigner(cfg.KeyFile)
	case ModeTransit:
		timeout := cfg.TimeoutSeconds
		if timeout <= 0 {
			timeout = 10
		}
		return NewTransitSigner(cfg, &http.Client{Timeout: time.Duration(timeout) * time.Second}), nil
	default:
		return nil, fmt.Errorf("unknown signing mode %q", cfg.Mode)
	}
}

// SignOptional signs hash when a signer is present and returns an empty
// signature otherwise.
func SignOptional(ctx context.Context, signer Signer, hash string) (string, error) {
	if signer == nil {
		return "", nil
	}
	sig, err := signer.Sign(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", hash, err)
	}
	return sig, nil
}

// Verify checks a signature produced by any Signer against a base64 DER
// public key.
func Verify(publicKey, hash, signature string) error {
	der, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return fmt.Errorf("invalid public key encoding: %w", err)
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("public key is not an ECDSA key")
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}

	digest := sha256.Sum256([]byte(hash))
	if !ecdsa.VerifyASN1(pub, digest[:], sig) {
		return errors.New("signature does not match")
	}
	return nil
}
