package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

// ReservationService drives the per-(actor, event) reservation state machine.
//
// The existence check and the write run as separate single-query calls, so
// two requests for the same pair may interleave. Uniqueness is enforced by
// the store; a rejected insert is reported as OutcomeAlreadyReserved and a
// delete that finds nothing after a positive check is a completed cancel.
type ReservationService struct {
	repo  ports.ReservationRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewReservationService returns a ReservationService. A nil audit recorder
// disables the audit trail.
func NewReservationService(repo ports.ReservationRepository, audit ports.AuditRecorder, log zerolog.Logger) *ReservationService {
	if audit == nil {
		audit = noAudit{}
	}
	return &ReservationService{repo: repo, audit: audit, log: log, now: time.Now}
}

func (s *ReservationService) Toggle(ctx context.Context, in ports.ToggleInput) (domain.ToggleOutcome, error) {
	if in.Actor.Role != domain.RoleAttendee {
		return "", fmt.Errorf("%w: only attendees can make reservations", domain.ErrForbiddenRole)
	}
	if in.Actor.ActorID <= 0 || in.EventID <= 0 {
		return "", fmt.Errorf("%w: actor and event are required", domain.ErrValidation)
	}

	exists, err := s.repo.Exists(ctx, in.Actor.ActorID, in.EventID)
	if err != nil {
		s.log.Error().Err(err).Int64("actor_id", in.Actor.ActorID).Int64("event_id", in.EventID).Msg("reservation lookup failed")
		return "", fmt.Errorf("toggle reservation: %w", err)
	}

	var outcome domain.ToggleOutcome
	switch {
	case in.WantReserved && exists:
		outcome = domain.OutcomeAlreadyReserved
	case in.WantReserved:
		outcome, err = s.reserve(ctx, in)
	default:
		outcome, err = s.cancel(ctx, in, exists)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.log.Error().Err(err).Int64("actor_id", in.Actor.ActorID).Int64("event_id", in.EventID).Msg("reservation write failed")
		}
		return "", fmt.Errorf("toggle reservation: %w", err)
	}

	s.audit.Record(domain.ReservationAudit{
		ActorID:   in.Actor.ActorID,
		EventID:   in.EventID,
		Requested: in.WantReserved,
		Outcome:   outcome,
		At:        s.now().UTC(),
	})

	s.log.Info().
		Int64("actor_id", in.Actor.ActorID).
		Int64("event_id", in.EventID).
		Bool("reserve", in.WantReserved).
		Str("outcome", string(outcome)).
		Msg("reservation toggled")

	return outcome, nil
}

func (s *ReservationService) reserve(ctx context.Context, in ports.ToggleInput) (domain.ToggleOutcome, error) {
	err := s.repo.Insert(ctx, domain.Reservation{
		ActorID:    in.Actor.ActorID,
		EventID:    in.EventID,
		ReservedAt: s.now().UTC(),
	})
	if errors.Is(err, domain.ErrDuplicateReservation) {
		s.log.Debug().Int64("actor_id", in.Actor.ActorID).Int64("event_id", in.EventID).Msg("concurrent reserve won the insert")
		return domain.OutcomeAlreadyReserved, nil
	}
	if err != nil {
		return "", err
	}
	return domain.OutcomeOK, nil
}

// cancel always issues the delete so a reserve that landed after the
// existence check is still removed.
func (s *ReservationService) cancel(ctx context.Context, in ports.ToggleInput, existed bool) (domain.ToggleOutcome, error) {
	n, err := s.repo.Delete(ctx, in.Actor.ActorID, in.EventID)
	if err != nil {
		return "", err
	}
	switch {
	case n > 0:
		return domain.OutcomeOK, nil
	case existed:
		s.log.Debug().Int64("actor_id", in.Actor.ActorID).Int64("event_id", in.EventID).Msg("reservation already canceled concurrently")
		return domain.OutcomeOK, nil
	default:
		return domain.OutcomeNotReservedCannotCancel, nil
	}
}

type noAudit struct{}

func (noAudit) Record(domain.ReservationAudit) {}
