// Package auth handles credentials: bcrypt password hashing, JWT access
// tokens, and the middleware that turns an Authorization header into an
// identity on the request context.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly a quarter of a
// second on current server hardware — negligible for a login, expensive for a
// brute-force attacker.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt.
//
// It's a struct rather than free functions so tests can lower the cost
// (hashing at cost 12 in every test would be painfully slow).
type PasswordService struct {
	cost int
}

// NewPasswordService returns a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost returns a PasswordService with a custom cost.
// Intended for tests (bcrypt.MinCost makes them fast).
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of password. bcrypt generates and embeds a
// random salt, so hashing the same password twice yields different strings.
func (s *PasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password must not be empty")
	}
	// bcrypt silently truncates input beyond 72 bytes; reject instead.
	if len(password) > 72 {
		return "", errors.New("auth: password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is a normal
// outcome (false, nil); only malformed hashes produce an error.
func (s *PasswordService) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("auth: comparing password: %w", err)
}
