package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const resetTokenBytes = 32

// NewResetToken generates a password-reset secret. The plain value
// (64 hex characters) goes into the emailed link and is never stored;
// only the sha256 hex digest is persisted.
func NewResetToken() (plain, hash string, err error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, HashResetToken(plain), nil
}

// HashResetToken returns the hex sha256 digest of a presented secret.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// MatchResetToken compares a presented secret against a stored digest
// in constant time.
func MatchResetToken(plain, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashResetToken(plain)), []byte(storedHash)) == 1
}
