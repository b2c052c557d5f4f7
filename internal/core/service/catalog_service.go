package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

// CatalogService validates catalog queries and reads events through the
// store adapter. It does not know about roles.
type CatalogService struct {
	events ports.EventRepository
	log    zerolog.Logger
}

func NewCatalogService(events ports.EventRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{events: events, log: log}
}

// ListEvents returns every event starting on or after in.From, ascending.
func (s *CatalogService) ListEvents(ctx context.Context, in ports.ListEventsInput) ([]domain.Event, error) {
	from, err := domain.ParseFromDate(in.From)
	if err != nil {
		return nil, err
	}
	page, err := domain.ParsePage(in.Offset, in.Limit)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListEvents(ctx, from, page)
	if err != nil {
		s.log.Error().Err(err).Time("from", from).Msg("list events failed")
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListHostEvents is ListEvents scoped to one host, with attendee counts.
func (s *CatalogService) ListHostEvents(ctx context.Context, in ports.ListHostEventsInput) ([]domain.EventWithAttendance, error) {
	if in.HostID <= 0 {
		return nil, fmt.Errorf("%w: host id is required", domain.ErrValidation)
	}
	from, err := domain.ParseFromDate(in.From)
	if err != nil {
		return nil, err
	}
	page, err := domain.ParsePage(in.Offset, in.Limit)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListHostEvents(ctx, in.HostID, from, page)
	if err != nil {
		s.log.Error().Err(err).Int64("host_id", in.HostID).Msg("list host events failed")
		return nil, fmt.Errorf("list host events: %w", err)
	}
	return events, nil
}
