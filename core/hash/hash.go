package hash

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// Size is the length of a rendered hash in hex characters.
const Size = 64

// Sum returns the lowercase hex SHA-256 digest of data.
func Sum(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// SumString hashes the UTF-8 bytes of s.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Valid reports whether h has the shape of a rendered hash.
func Valid(h string) bool {
	if len(h) != Size {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
