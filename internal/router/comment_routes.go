package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterComments registers comment thread endpoints.  Reading a
// property's comments is public so listings can show reviews; everything
// else requires a JWT.
func RegisterComments(e *echo.Echo, h *handler.CommentHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	pub := e.Group("/v1")
	if cacheMW != nil {
		pub = e.Group("/v1", cacheMW)
	}
	pub.GET("/properties/:id/comments", h.ListByProperty)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/comments", h.Create)
	g.GET("/comments/:id", h.Get)
	g.PUT("/comments/:id", h.Update)
	g.PATCH("/comments/:id", h.Update)
	g.DELETE("/comments/:id", h.Delete)
	g.GET("/reservations/:id/comments", h.ListByReservation)
}
