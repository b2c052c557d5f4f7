package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

var _ ports.EventRepository = (*EventRepository)(nil)

const listEventsSQL = `
SELECT id, host_id, name, start_date
FROM events
WHERE start_date >= $1
ORDER BY start_date, id
LIMIT $2 OFFSET $3`

const listHostEventsSQL = `
SELECT e.id, e.host_id, e.name, e.start_date,
       (SELECT count(*) FROM attends a WHERE a.event_id = e.id) AS attendee_count
FROM events e
WHERE e.host_id = $1 AND e.start_date >= $2
ORDER BY e.start_date, e.id
LIMIT $3 OFFSET $4`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) ListEvents(ctx context.Context, from time.Time, page domain.Page) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, listEventsSQL, from, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError("list events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var e domain.Event
		err := row.Scan(&e.ID, &e.HostID, &e.Name, &e.StartDate)
		return e, err
	})
	if err != nil {
		return nil, mapError("list events", err)
	}
	return events, nil
}

func (r *EventRepository) ListHostEvents(ctx context.Context, hostID int64, from time.Time, page domain.Page) ([]domain.EventWithAttendance, error) {
	rows, err := r.pool.Query(ctx, listHostEventsSQL, hostID, from, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError("list host events", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.EventWithAttendance, error) {
		var e domain.EventWithAttendance
		err := row.Scan(&e.ID, &e.HostID, &e.Name, &e.StartDate, &e.AttendeeCount)
		return e, err
	})
	if err != nil {
		return nil, mapError("list host events", err)
	}
	return events, nil
}
