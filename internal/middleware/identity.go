package middleware

// identity.go holds the helper shared by the cache and rate limit
// middleware for attributing a request to a user.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user id stored by JWTAuth as a
// string, or "anon" for unauthenticated requests.  JWT numeric claims
// decode as float64, so the value is formatted rather than asserted.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
		return "anon"
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}
