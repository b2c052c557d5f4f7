package service

import (
	"fmt"
	"strings"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

// Gate resolves a bearer token into claims and checks the required role.
// It never touches the store.
type Gate struct {
	tokens ports.TokenService
}

// NewGate returns a Gate verifying tokens with the given service.
func NewGate(tokens ports.TokenService) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize returns the caller's claims, or one of ErrMissingCredentials,
// ErrInvalidToken or ErrForbiddenRole.
func (g *Gate) Authorize(token string, required domain.Role) (domain.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Claims{}, domain.ErrMissingCredentials
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	if claims.Role != required {
		return domain.Claims{}, fmt.Errorf("%w: %s required, token carries %s", domain.ErrForbiddenRole, required, claims.Role)
	}
	return claims, nil
}
