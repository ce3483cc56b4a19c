package helpers

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is deliberately above the library default; password
// hashing is meant to be slow.
const DefaultBcryptCost = 12

// HashPassword hashes the plain text password using bcrypt with the
// given cost. A cost below bcrypt.MinCost falls back to DefaultBcryptCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt hash with a plain password.
// bcrypt's comparison is constant-time with respect to the digest.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
