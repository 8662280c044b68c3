package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/reconcile"
	"github.com/iliyamo/cinema-ticket-booking/internal/views"
)

// PaymentHandler serves the gateway's success and failure redirects.
type PaymentHandler struct {
	Reconciler *reconcile.Reconciler
	Logger     *zap.Logger
}

// Success handles GET /payment/success?data=...  Every visit is its own
// reconciliation attempt; reloads land in already_processed.  The page is
// always rendered, whatever the outcome.
func (h *PaymentHandler) Success(c echo.Context) error {
	out := h.Reconciler.
		Begin(middleware.HandoffKey(c)).
		Run(c.Request().Context(), middleware.UserID(c), c.QueryParam("data"))
	if out.Err != nil {
		h.Logger.Debug("payment callback outcome", zap.String("state", string(out.State)), zap.Error(out.Err))
	}
	return h.render(c, out)
}

// Failure handles GET /payment/failure.  Nothing is read or written.
func (h *PaymentHandler) Failure(c echo.Context) error {
	return h.render(c, reconcile.GatewayFailure())
}

func (h *PaymentHandler) render(c echo.Context, out reconcile.Outcome) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{
			"state":             out.State,
			"message":           out.Message,
			"transaction_uuid":  out.TransactionUUID,
			"booking_id":        out.BookingID,
			"redirect_to":       out.RedirectTo,
			"redirect_after_ms": out.RedirectAfter.Milliseconds(),
		})
	}
	return c.Render(http.StatusOK, views.PaymentResult, out)
}
