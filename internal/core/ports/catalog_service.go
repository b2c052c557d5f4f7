package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// ListEventsInput carries the raw catalog parameters as received from the
// caller. Offset and Limit are optional.
type ListEventsInput struct {
	From   string
	Offset string
	Limit  string
}

// ListHostEventsInput scopes a listing to one host.
type ListHostEventsInput struct {
	HostID int64
	From   string
	Offset string
	Limit  string
}

// CatalogService is role-agnostic; callers gate host listings themselves.
type CatalogService interface {
	ListEvents(ctx context.Context, in ListEventsInput) ([]domain.Event, error)
	ListHostEvents(ctx context.Context, in ListHostEventsInput) ([]domain.EventWithAttendance, error)
}
