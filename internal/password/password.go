// Package password owns credential hashing and verification.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords with bcrypt. The salt is embedded
// in the output, so verification needs only the stored hash.
type Hasher struct {
	cost int
}

// NewHasher creates a new Hasher. Cost 0 selects bcrypt's default.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. It never
// returns an error: mismatches, garbage hashes and over-long inputs all
// come back false, so callers cannot build an error-based oracle. The
// underlying comparison is constant-time.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
