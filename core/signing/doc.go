// Package signing provides the optional signing capability.
//
// A Signer signs the hex hash of a record and exposes the public key that
// verifies it. Signing is optional: New returns a nil Signer when the
// configured mode is "none", and callers branch on signer != nil.
//
// Two implementations exist:
//
//   - LocalSigner holds an ECDSA P-256 private key loaded from a PEM file.
//   - TransitSigner delegates to a remote transit signing API over HTTP.
//
// Both produce a base64 encoded ASN.1 DER ECDSA signature over the SHA-256
// digest of the hash string's UTF-8 bytes.
package signing
