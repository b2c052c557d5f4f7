package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eventdesk/reservations/internal/core/domain"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapError turns constraint violations into domain errors and marks every
// other failure as a store error.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return domain.ErrDuplicateReservation
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s references a missing row", domain.ErrValidation, op)
		}
	}
	return domain.StoreError(op, err)
}
