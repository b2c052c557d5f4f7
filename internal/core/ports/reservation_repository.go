package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// ReservationRepository persists attends rows. Every method uses exactly one
// pooled connection and releases it before returning.
type ReservationRepository interface {
	Exists(ctx context.Context, actorID, eventID int64) (bool, error)
	// Insert returns domain.ErrDuplicateReservation when the store's
	// (actor_id, event_id) uniqueness constraint rejects the row.
	Insert(ctx context.Context, r domain.Reservation) error
	// Delete returns the number of rows removed.
	Delete(ctx context.Context, actorID, eventID int64) (int64, error)
}
