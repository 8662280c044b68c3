package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/checkout"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
	"github.com/iliyamo/cinema-ticket-booking/internal/views"
)

// CheckoutHandler turns a seat selection into a signed gateway redirect.
type CheckoutHandler struct {
	Shows        ShowReader
	Orchestrator *checkout.Orchestrator
	DefaultPrice int64
	Logger       *zap.Logger
}

// checkoutRequest accepts seats as a JSON array, repeated form fields or a
// single comma separated field.
type checkoutRequest struct {
	Seats []string `json:"seats" form:"seats"`
}

// Checkout handles POST /v1/shows/:id/checkout.  The requested seats are
// replayed against a freshly mounted seat map, so seats booked since the
// picker loaded are dropped rather than paid for twice.  Browsers get an
// auto-submitting form, or a confirm page naming the dropped seats when the
// amount changed; clients sending Accept: application/json get the fields to
// post themselves along with the dropped seats.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	requested := normalizeSeats(req.Seats)
	if len(requested) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
	}

	show, status, msg := loadShow(c, h.Shows, h.Logger)
	if show == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	m, err := seatmap.Mount(show, h.DefaultPrice)
	if err != nil {
		h.Logger.Error("mount seat map", zap.String("show_id", show.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid seat layout"})
	}
	var skipped []string
	for _, id := range requested {
		if !m.Toggle(id) {
			skipped = append(skipped, id)
		}
	}

	form, err := h.Orchestrator.Initiate(c.Request().Context(), middleware.HandoffKey(c), show, m, middleware.UserID(c))
	switch {
	case errors.Is(err, checkout.ErrEmptySelection):
		return c.JSON(http.StatusConflict, echo.Map{"error": "selected seats are no longer available", "unavailable": skipped})
	case errors.Is(err, checkout.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign in to book seats"})
	case errors.Is(err, checkout.ErrNoHandoffKey):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cookies are required to complete a booking"})
	case err != nil:
		h.Logger.Error("initiate checkout", zap.String("show_id", show.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start payment"})
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{
			"action":      form.Action,
			"fields":      form,
			"seats":       m.Selected(),
			"unavailable": skipped,
		})
	}
	return c.Render(http.StatusOK, views.Checkout, echo.Map{
		"Form":        form,
		"MovieTitle":  show.MovieTitle,
		"Unavailable": skipped,
	})
}

// normalizeSeats trims, splits comma lists and drops duplicates.  A seat
// listed twice would otherwise be toggled off again.
func normalizeSeats(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, id := range strings.Split(raw, ",") {
			id = strings.ToUpper(strings.TrimSpace(id))
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
