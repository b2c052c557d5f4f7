package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Actor, error)
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	Issue(actor domain.Actor) (string, error)
	// Verify never panics; any malformed, unsigned or tampered token yields
	// domain.ErrInvalidToken.
	Verify(token string) (domain.Claims, error)
}

// LoginLimiter throttles repeated failed logins for the same email.
type LoginLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
