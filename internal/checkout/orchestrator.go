// Package checkout prepares the outbound eSewa payment: it prices the
// current selection, signs the request and stores the pending booking that
// the callback will need once the browser comes back from the gateway.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/esewa"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/pending"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

var (
	// ErrEmptySelection is returned when checkout is attempted with no seats.
	ErrEmptySelection = errors.New("checkout: no seats selected")
	// ErrUnauthenticated is returned for guests; checkout requires a user.
	ErrUnauthenticated = errors.New("checkout: sign in required")
	// ErrNoHandoffKey is returned when the caller has no key to file the
	// pending booking under.
	ErrNoHandoffKey = errors.New("checkout: missing handoff key")
)

// Orchestrator builds signed payment forms.
type Orchestrator struct {
	store      pending.Store
	merchant   esewa.Merchant
	successURL string
	failureURL string
	logger     *zap.Logger

	now    func() time.Time
	suffix func() string
}

// Config holds the gateway account and the absolute callback URLs.
type Config struct {
	Merchant   esewa.Merchant
	SuccessURL string
	FailureURL string
}

// New returns an Orchestrator saving pending bookings into store.
func New(store pending.Store, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:      store,
		merchant:   cfg.Merchant,
		successURL: cfg.SuccessURL,
		failureURL: cfg.FailureURL,
		logger:     logger,
		now:        time.Now,
		suffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
	}
}

// NewTransactionUUID returns "TXN-<unix millis>-<8 hex chars>".  The random
// suffix keeps two checkouts in the same millisecond apart.
func (o *Orchestrator) NewTransactionUUID() string {
	return "TXN-" + strconv.FormatInt(o.now().UnixMilli(), 10) + "-" + o.suffix()
}

// Initiate prices the selection, signs the payment request and saves the
// pending booking under handoffKey.  The returned form must be posted by the
// browser to form.Action; nothing is charged until then.
func (o *Orchestrator) Initiate(ctx context.Context, handoffKey string, show *model.Show, seats *seatmap.SeatMap, userID string) (*esewa.PaymentForm, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if handoffKey == "" {
		return nil, ErrNoHandoffKey
	}
	if seats == nil || !seats.CanCheckout() {
		return nil, ErrEmptySelection
	}

	txID := o.NewTransactionUUID()
	if err := esewa.ValidateTransactionUUID(txID); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	form, err := esewa.NewPaymentForm(esewa.FormRequest{
		Action:          o.merchant.FormURL,
		Amount:          seats.Amount(),
		TransactionUUID: txID,
		ProductCode:     o.merchant.ProductCode,
		SuccessURL:      o.successURL,
		FailureURL:      o.failureURL,
		Secret:          o.merchant.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: sign: %w", err)
	}

	rec := model.PendingBooking{
		MovieTitle:      show.MovieTitle,
		ShowID:          show.ID,
		TheaterName:     show.TheaterName,
		Time:            show.Time,
		Amount:          form.TotalAmount,
		SelectedSeats:   seats.Selected(),
		UserID:          userID,
		TransactionUUID: txID,
		CreatedAt:       o.now().UTC(),
	}
	if err := o.store.Save(ctx, handoffKey, rec); err != nil {
		return nil, fmt.Errorf("checkout: save pending booking: %w", err)
	}

	o.logger.Info("checkout initiated",
		zap.String("show_id", show.ID),
		zap.String("user_id", userID),
		zap.String("transaction_uuid", txID),
		zap.Strings("seats", rec.SelectedSeats),
		zap.String("amount", rec.Amount),
	)
	return form, nil
}
