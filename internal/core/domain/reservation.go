package domain

import "time"

// Reservation is the join row between an attendee and an event. At most one
// row exists per (ActorID, EventID); the store enforces it.
type Reservation struct {
	ActorID    int64
	EventID    int64
	ReservedAt time.Time
}

// ToggleOutcome is the terminal, non-error result of a reservation toggle.
type ToggleOutcome string

const (
	OutcomeOK                      ToggleOutcome = "OK"
	OutcomeAlreadyReserved         ToggleOutcome = "ALREADY_RESERVED"
	OutcomeNotReservedCannotCancel ToggleOutcome = "NOT_RESERVED_CANNOT_CANCEL"
)

// LegacyCode returns the numeric code the first version of the API reported
// for each outcome.
func (o ToggleOutcome) LegacyCode() int {
	switch o {
	case OutcomeAlreadyReserved:
		return 501
	case OutcomeNotReservedCannotCancel:
		return 502
	default:
		return 200
	}
}

// ReservationAudit is one recorded toggle attempt.
type ReservationAudit struct {
	ActorID   int64
	EventID   int64
	Requested bool
	Outcome   ToggleOutcome
	At        time.Time
}
