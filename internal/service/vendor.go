package service

import (
	"context"
	"fmt"

	"github.com/ellas-cupcakery/storefront/internal/utils/jwt"
	"github.com/ellas-cupcakery/storefront/internal/utils/password"
)

// VendorService handles dashboard operator authentication. Operators share a
// single access code; a successful check yields a short-lived session token.
type VendorService struct {
	codeHash   string
	hasher     password.Hasher
	jwtManager *jwt.Manager
}

// NewVendorService creates a new VendorService. An empty codeHash disables
// vendor access entirely.
func NewVendorService(codeHash string, hasher password.Hasher, jwtManager *jwt.Manager) *VendorService {
	return &VendorService{
		codeHash:   codeHash,
		hasher:     hasher,
		jwtManager: jwtManager,
	}
}

// Login checks the access code and issues a session token
func (s *VendorService) Login(ctx context.Context, accessCode string) (string, error) {
	if s.codeHash == "" {
		return "", ErrVendorAccessDisabled
	}
	if accessCode == "" {
		return "", ErrInvalidAccessCode
	}

	if err := s.hasher.Check(s.codeHash, accessCode); err != nil {
		return "", ErrInvalidAccessCode
	}

	token, err := s.jwtManager.Generate("vendor")
	if err != nil {
		return "", fmt.Errorf("vendor service: failed to generate token: %w", err)
	}
	return token, nil
}

// Verify checks a session token and returns its subject
func (s *VendorService) Verify(tokenString string) (string, error) {
	subject, err := s.jwtManager.Validate(tokenString)
	if err != nil {
		return "", fmt.Errorf("vendor service: invalid token: %w", err)
	}
	return subject, nil
}
