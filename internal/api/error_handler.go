package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/api/metrics"
	"github.com/eventdesk/reservations/internal/core/domain"
)

// errorResponse is the error envelope for every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByCode = map[string]int{
	"VALIDATION_ERROR":    http.StatusBadRequest,
	"BAD_PAGINATION":      http.StatusBadRequest,
	"MISSING_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"FORBIDDEN_ROLE":      http.StatusForbidden,
	"TOO_MANY_ATTEMPTS":   http.StatusTooManyRequests,
	"STORE_UNAVAILABLE":   http.StatusServiceUnavailable,
}

// NewHTTPErrorHandler renders domain errors through the taxonomy in
// domain.Code. Authentication failures are logged at debug; store outages
// and unknown errors at error level with a generic message to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		metrics.ErrorsTotal.WithLabelValues(body.Code).Inc()
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Router and binder errors.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := "HTTP_" + fmt.Sprint(he.Code)
		if he.Code == http.StatusBadRequest {
			code = domain.Code(domain.ErrValidation)
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: code}
	}

	code := domain.Code(err)
	status, known := statusByCode[code]
	switch {
	case !known:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"}

	case status == http.StatusServiceUnavailable:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("store unavailable")
		return status, errorResponse{Error: "service temporarily unavailable", Code: code}

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		log.Debug().Err(err).Str("path", c.Path()).Msg("request rejected")
		return status, errorResponse{Error: publicMessage(err), Code: code}
	}

	return status, errorResponse{Error: err.Error(), Code: code}
}

// publicMessage hides token and credential detail from clients.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return "missing credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid token"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, domain.ErrForbiddenRole):
		return "role not allowed for this resource"
	}
	return err.Error()
}
