// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
)

// Deps is everything the routes need.  Redis may be nil, which disables
// rate limiting and caching.
type Deps struct {
	Shows    *handler.ShowHandler
	Checkout *handler.CheckoutHandler
	Payment  *handler.PaymentHandler
	Bookings *handler.BookingHandler

	JWTSecret    string
	HandoffTTL   time.Duration
	SecureCookie bool
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
	Logger       *zap.Logger
}

// RegisterRoutes registers the liveness probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the seat picking, checkout and payment routes.
func RegisterBooking(e *echo.Echo, d Deps) {
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger)
	handoff := middleware.Handoff(d.HandoffTTL, d.SecureCookie)

	// Public reads.  Only the summary is cached; the seat map must show the
	// latest booked set.
	e.GET("/v1/shows/:id", d.Shows.GetShow, middleware.NewRedisCache(d.Cache, d.Redis))
	e.GET("/v1/shows/:id/seats", d.Shows.GetSeats)

	auth := middleware.JWTAuth(d.JWTSecret)
	e.POST("/v1/shows/:id/checkout", d.Checkout.Checkout, auth, handoff, limit)
	e.GET("/v1/bookings", d.Bookings.List, auth)
	e.GET("/bookings", d.Bookings.Page, auth)

	// The gateway redirects the browser here.  Authentication is optional
	// at the route so that a missing session renders the error page instead
	// of a bare 401.
	pay := e.Group("/payment", middleware.OptionalAuth(d.JWTSecret), handoff, limit)
	pay.GET("/success", d.Payment.Success)
	pay.GET("/failure", d.Payment.Failure)
}
