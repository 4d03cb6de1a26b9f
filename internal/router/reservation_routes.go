package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterReservations registers the reservation lifecycle endpoints
// under /v1.  Every route requires a valid JWT; tenant/owner rules are
// enforced by the service layer.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/reservations", h.Create)
	g.GET("/reservations/mine", h.ListMine)
	g.GET("/reservations/:id", h.Get)
	g.PUT("/reservations/:id", h.Update)
	g.PATCH("/reservations/:id", h.Update)
	g.DELETE("/reservations/:id", h.Delete)

	// Owner view of a property's calendar.
	g.GET("/properties/:id/reservations", h.ListByProperty)
}
