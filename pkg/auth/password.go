package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

// MaxPasswordBytes is the longest input bcrypt will accept.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	ErrPasswordMismatch = errors.New("password does not match")
)

// Hasher hashes and compares passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher for the given cost. Out of range costs fall back
// to DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare checks password against a stored hash. Any failure, including a
// malformed hash, is reported as ErrPasswordMismatch.
func (h *Hasher) Compare(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// Cost returns the bcrypt cost in use.
func (h *Hasher) Cost() int {
	return h.cost
}
