package ports

import (
	"context"
	"time"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// EventRepository reads the catalog. Both listings return events with
// start_date >= from, ascending by start_date, windowed by page.
type EventRepository interface {
	ListEvents(ctx context.Context, from time.Time, page domain.Page) ([]domain.Event, error)
	// ListHostEvents scopes the listing to hostID and computes the attendee
	// count of every event in the same query.
	ListHostEvents(ctx context.Context, hostID int64, from time.Time, page domain.Page) ([]domain.EventWithAttendance, error)
}
