package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventdesk/reservations/internal/api/metrics"
	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

type ReservationHandler struct {
	reservations ports.ReservationService
}

func NewReservationHandler(reservations ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Toggle handles POST /api/users/reserve. Every completed toggle answers
// 200; the outcome field says whether the state changed.
//
// @Summary      Reserve or cancel a seat
// @Tags         reservations
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reserveRequest  true  "Target event and desired state"
// @Success      200   {object}  toggleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/users/reserve [post]
func (h *ReservationHandler) Toggle(c echo.Context) error {
	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Reserve = flexString(strings.ToLower(req.Reserve.String()))
	if err := c.Validate(&req); err != nil {
		return err
	}

	eventID, err := strconv.ParseInt(req.EventID.String(), 10, 64)
	if err != nil || eventID <= 0 {
		return fmt.Errorf("%w: event_id %q must be a positive integer", domain.ErrValidation, req.EventID)
	}
	want := req.Reserve == "true"

	outcome, err := h.reservations.Toggle(c.Request().Context(), ports.ToggleInput{
		Actor:        claims,
		EventID:      eventID,
		WantReserved: want,
	})
	if err != nil {
		return err
	}

	metrics.ReservationTogglesTotal.WithLabelValues(action(want), string(outcome)).Inc()
	return c.JSON(http.StatusOK, toToggleResponse(outcome))
}

func action(want bool) string {
	if want {
		return "reserve"
	}
	return "cancel"
}
