package domain

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrInvalidToken         = errors.New("invalid token")
	ErrForbiddenRole        = errors.New("forbidden role")
	ErrBadPagination        = errors.New("bad pagination")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTooManyAttempts      = errors.New("too many login attempts")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrDuplicateReservation = errors.New("reservation already exists")
)

// Code returns the taxonomy name for a known domain error, or "" when err is
// outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrMissingCredentials):
		return "MISSING_CREDENTIALS"
	case errors.Is(err, ErrInvalidToken):
		return "INVALID_TOKEN"
	case errors.Is(err, ErrForbiddenRole):
		return "FORBIDDEN_ROLE"
	case errors.Is(err, ErrBadPagination):
		return "BAD_PAGINATION"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrTooManyAttempts):
		return "TOO_MANY_ATTEMPTS"
	case errors.Is(err, ErrStoreUnavailable):
		return "STORE_UNAVAILABLE"
	}
	return ""
}

// StoreError marks err as a store failure while keeping the driver error
// reachable through errors.Is / errors.As.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storeError{op: op, err: err}
}

type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string {
	return e.op + ": " + ErrStoreUnavailable.Error() + ": " + e.err.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.err}
}
