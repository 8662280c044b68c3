package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/views"
)

// BookingLister returns a user's bookings, newest first.
type BookingLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
}

// BookingHandler serves the current user's booking history.
type BookingHandler struct {
	Bookings BookingLister
	Logger   *zap.Logger
}

// List handles GET /v1/bookings.
func (h *BookingHandler) List(c echo.Context) error {
	items, ok := h.list(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Page handles GET /bookings, where the success page sends the browser.
func (h *BookingHandler) Page(c echo.Context) error {
	items, ok := h.list(c)
	if !ok {
		return c.String(http.StatusInternalServerError, "could not load bookings")
	}
	return c.Render(http.StatusOK, views.Bookings, items)
}

func (h *BookingHandler) list(c echo.Context) ([]model.Booking, bool) {
	uid := middleware.UserID(c)
	items, err := h.Bookings.ListByUser(c.Request().Context(), uid)
	if err != nil {
		h.Logger.Error("list bookings", zap.String("user_id", uid), zap.Error(err))
		return nil, false
	}
	if items == nil {
		items = []model.Booking{}
	}
	return items, true
}
