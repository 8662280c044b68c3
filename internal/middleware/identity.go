package middleware

import "github.com/labstack/echo/v4"

const (
	userIDKey     = "user_id"
	handoffKeyCtx = "handoff_key"
)

// UserID returns the authenticated subject, or "" for guests.
func UserID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok {
		return s
	}
	return ""
}

// subject is UserID with a placeholder for keys that need a non-empty part.
func subject(c echo.Context) string {
	if s := UserID(c); s != "" {
		return s
	}
	return "anon"
}
