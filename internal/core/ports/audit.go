package ports

import (
	"context"

	"github.com/eventdesk/reservations/internal/core/domain"
)

// AuditRecorder accepts toggle records without blocking the caller.
type AuditRecorder interface {
	Record(entry domain.ReservationAudit)
}

// AuditRepository persists toggle records.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.ReservationAudit) error
}
