package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/eventdesk/reservations/internal/api/middleware"
	"github.com/eventdesk/reservations/internal/core/domain"
)

// actorClaims returns the claims injected by middleware.Auth. Their absence
// means the route was registered without the middleware.
func actorClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok || claims.ActorID <= 0 {
		return domain.Claims{}, domain.ErrMissingCredentials
	}
	return claims, nil
}
