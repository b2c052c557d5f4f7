package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// ToggleInput asks for the reservation state of (Actor.ActorID, EventID) to
// become WantReserved.
type ToggleInput struct {
	Actor        domain.Claims
	EventID      int64
	WantReserved bool
}

type ReservationService interface {
	Toggle(ctx context.Context, in ToggleInput) (domain.ToggleOutcome, error)
}
