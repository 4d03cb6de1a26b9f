package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
)

// RegisterNotifications registers notification endpoints under /v1.  All
// routes require a valid JWT; receiver checks live in the repository.
func RegisterNotifications(e *echo.Echo, h *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/notifications", h.Create)
	g.GET("/notifications/unread", h.ListUnread)
	g.POST("/notifications/:id/read", h.MarkRead)
}
