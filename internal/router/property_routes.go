package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterProperties registers property browsing and management routes.
// Browsing and search are public; cacheMW (may be nil) wraps the public
// reads so repeat searches hit Redis.  Mutations require a JWT and are
// restricted to the owning user inside the handlers.
func RegisterProperties(e *echo.Echo, p *handler.PropertyHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	pub := e.Group("/v1")
	if cacheMW != nil {
		pub = e.Group("/v1", cacheMW)
	}
	pub.GET("/properties", p.Search)
	pub.GET("/properties/:id", p.Get)
	pub.GET("/properties/:id/availability", p.Availability)

	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.POST("/properties", p.Create)
	g.GET("/properties/mine", p.ListMine)
	g.PUT("/properties/:id", p.Update)
	g.PATCH("/properties/:id", p.Update)
	g.DELETE("/properties/:id", p.Delete)
}
