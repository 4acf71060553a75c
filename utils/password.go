package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Rounds = 4096
	pbkdf2KeyLen = 32
)

// GenerateSalt returns a fresh per-user salt.
func GenerateSalt() string {
	return uuid.NewString()
}

// HashPassword derives a deterministic digest from a raw password and a
// per-user salt. The same inputs always produce the same digest, so the
// value computed at account creation can be compared at login.
func HashPassword(raw, salt string) string {
	key := pbkdf2.Key([]byte(raw), []byte(salt), pbkdf2Rounds, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// CheckPassword compares a stored digest against the digest of a login
// attempt without leaking timing.
func CheckPassword(hash, raw, salt string) bool {
	candidate := HashPassword(raw, salt)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(candidate)) == 1
}
