package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

var _ ports.ReservationRepository = (*ReservationRepository)(nil)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) Exists(ctx context.Context, actorID, eventID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attends WHERE actor_id = $1 AND event_id = $2)`,
		actorID, eventID,
	).Scan(&ok)
	if err != nil {
		return false, mapError("reservation exists", err)
	}
	return ok, nil
}

// Insert returns domain.ErrDuplicateReservation when the pair already exists.
func (r *ReservationRepository) Insert(ctx context.Context, res domain.Reservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attends (actor_id, event_id, reserved_at) VALUES ($1, $2, $3)`,
		res.ActorID, res.EventID, res.ReservedAt,
	)
	return mapError("insert reservation", err)
}

func (r *ReservationRepository) Delete(ctx context.Context, actorID, eventID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM attends WHERE actor_id = $1 AND event_id = $2`,
		actorID, eventID,
	)
	if err != nil {
		return 0, mapError("delete reservation", err)
	}
	return tag.RowsAffected(), nil
}
