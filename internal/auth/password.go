package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsHash reports whether stored looks like a bcrypt hash rather than a plaintext secret.
func IsHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// VerifyShared checks a shared secret that may still be stored in plaintext.
// legacy is true when the stored value was not a bcrypt hash.
func (h *PasswordHasher) VerifyShared(stored, candidate string) (ok, legacy bool) {
	if IsHash(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate))
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, false
		}
		return err == nil, false
	}
	if strings.TrimSpace(stored) == "" {
		return false, true
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, true
}
