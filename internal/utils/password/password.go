package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt hashing cost
	DefaultCost = bcrypt.DefaultCost
)

// Hasher is the interface for hashing and checking secrets
type Hasher interface {
	Hash(secret string) (string, error)
	Check(hash, secret string) error
}

// BCryptHasher implements Hasher over bcrypt
type BCryptHasher struct {
	cost int
}

// NewBCryptHasher creates a new hasher with the given cost
func NewBCryptHasher(cost int) *BCryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BCryptHasher{
		cost: cost,
	}
}

// Hash hashes the secret
func (h *BCryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret cannot be empty")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}

	return string(hashedBytes), nil
}

// Check verifies the secret against the hash
func (h *BCryptHasher) Check(hash, secret string) error {
	if hash == "" || secret == "" {
		return fmt.Errorf("hash and secret cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("secret does not match")
		}
		return fmt.Errorf("failed to check secret: %w", err)
	}

	return nil
}
