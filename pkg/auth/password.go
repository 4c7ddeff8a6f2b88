package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently truncates anything past 72 bytes
const maxPasswordLength = 72

// PasswordHasher hashes and verifies passwords with bcrypt.
// The cost is injectable so tests can run at bcrypt.MinCost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the bcrypt default cost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// NewPasswordHasherWithCost creates a hasher with an explicit cost.
// Use bcrypt.MinCost in tests; never below the default in production.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted one-way digest from the plaintext. Each call embeds a
// fresh random salt, so hashing the same password twice yields different
// digests.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordLength {
		return "", fmt.Errorf("password exceeds %d bytes", maxPasswordLength)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the stored digest. It fails
// closed: a malformed digest yields false, never an error or panic. The
// underlying comparison is constant-time.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
