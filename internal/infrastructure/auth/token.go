package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a session token. 32 bytes gives a
// 64 character hex token.
const tokenBytes = 32

// TokenSource mints opaque session tokens. The raw token goes into the
// cookie; only its SHA-256 digest is persisted, so a database dump never
// exposes live sessions.
type TokenSource struct{}

// NewTokenSource creates a TokenSource.
func NewTokenSource() *TokenSource {
	return &TokenSource{}
}

// Mint generates a fresh random token and returns it together with the
// digest to store.
func (s *TokenSource) Mint() (token, digest string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate session token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, s.Digest(token), nil
}

// Digest returns the hex-encoded SHA-256 of a raw token.
func (s *TokenSource) Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
