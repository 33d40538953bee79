package utils // token generation and hashing helpers for the opaque bearer tokens

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for stored tokens
	"encoding/hex"  // hex encoding of random bytes and digests
)

// NewToken returns a cryptographically unpredictable opaque token string.
// 48 random bytes hex-encoded give 96 characters; collision with a live
// token is made negligible by entropy, and the unique index on the store
// rejects the astronomically unlikely duplicate.
func NewToken() (string, error) {
	return randomHex(48)
}

// HashToken returns the SHA-256 hash of the raw token as a hex string. Only
// the hash is persisted, so database exposure does not leak usable tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
