// Package entitykey derives entity keys the way the chain-backed store
// does: a Keccak-256 digest rendered as 0x-prefixed hex.
package entitykey

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

var keyPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

// New derives a key from the payload and a fresh nonce, so identical
// payloads written twice still get distinct keys.
func New(data []byte) string {
	nonce := uuid.New()

	return Derive(data, nonce[:])
}

// Derive is the deterministic part of New.
func Derive(data, nonce []byte) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	_, _ = h.Write(nonce)

	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Valid reports whether key has the canonical shape.
func Valid(key string) bool {
	return keyPattern.MatchString(key)
}
