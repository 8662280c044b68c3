package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HandoffCookie carries the key the pending booking is filed under.  It is
// HttpOnly and SameSite=Lax so that it is sent on the gateway's top-level
// redirect back to the success URL but not readable by scripts.
const HandoffCookie = "booking_handoff"

// Handoff makes sure every request has a handoff key, issuing a cookie when
// the browser has none.  The cookie lives as long as a pending booking may.
func Handoff(ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if ck, err := c.Cookie(HandoffCookie); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					key = ck.Value
				}
			}
			if key == "" {
				key = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     HandoffCookie,
					Value:    key,
					Path:     "/",
					MaxAge:   int(ttl / time.Second),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(handoffKeyCtx, key)
			return next(c)
		}
	}
}

// HandoffKey returns the key set by Handoff.
func HandoffKey(c echo.Context) string {
	s, _ := c.Get(handoffKeyCtx).(string)
	return s
}
