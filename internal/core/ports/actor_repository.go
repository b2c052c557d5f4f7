package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// ActorRepository resolves actors by credential match. The password is
// compared inside the store; it never leaves this call in hashed form.
type ActorRepository interface {
	FindByCredentials(ctx context.Context, email, password string) (*domain.Actor, error)
}
