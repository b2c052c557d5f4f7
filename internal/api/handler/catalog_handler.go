package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventdesk/reservations/internal/api/metrics"
	"github.com/eventdesk/reservations/internal/core/ports"
)

// CatalogHandler serves the public and host event listings.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListEvents handles GET /api/users/events.
//
// @Summary      List upcoming events
// @Tags         events
// @Produce      json
// @Param        from    query     string  true   "Lower bound on start date (YYYY-MM-DD)"
// @Param        offset  query     int     false  "Rows to skip"
// @Param        limit   query     int     false  "Maximum rows"
// @Success      200     {object}  eventsResponse
// @Failure      400     {object}  errorResponse
// @Failure      503     {object}  errorResponse
// @Router       /api/users/events [get]
func (h *CatalogHandler) ListEvents(c echo.Context) error {
	defer observe("public", time.Now())

	events, err := h.catalog.ListEvents(c.Request().Context(), ports.ListEventsInput{
		From:   c.QueryParam("from"),
		Offset: c.QueryParam("offset"),
		Limit:  c.QueryParam("limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventsResponse(events))
}

// ListHostEvents handles POST /api/companies/events.
//
// @Summary      List the calling host's events with attendee counts
// @Tags         events
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      hostEventsRequest  true  "Listing window"
// @Success      200   {object}  hostEventsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/companies/events [post]
func (h *CatalogHandler) ListHostEvents(c echo.Context) error {
	defer observe("host", time.Now())

	claims, err := actorClaims(c)
	if err != nil {
		return err
	}

	var req hostEventsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	events, err := h.catalog.ListHostEvents(c.Request().Context(), ports.ListHostEventsInput{
		HostID: claims.ActorID,
		From:   req.From.String(),
		Offset: req.Offset.String(),
		Limit:  req.Limit.String(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHostEventsResponse(events))
}

func observe(scope string, start time.Time) {
	metrics.CatalogQueryDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
}
