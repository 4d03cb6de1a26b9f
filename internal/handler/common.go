package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/service"
)

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64.  JWT numeric claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// writeError translates service and repository sentinels into an HTTP
// response.  Unknown errors become 500 without leaking details.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrPropertyNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrCommentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
	case errors.Is(err, repository.ErrNotificationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
	case errors.Is(err, repository.ErrReservationConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "dates conflict with an existing reservation"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrDuplicateRoot):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation already has a root comment"})
	case errors.Is(err, repository.ErrThreadMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "parent comment belongs to another reservation"})
	case errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation status"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation is not closed"})
	case errors.Is(err, service.ErrInvalidRange):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end date precedes start date"})
	case errors.Is(err, service.ErrInvalidRating):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	case errors.Is(err, service.ErrEmptyContent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
