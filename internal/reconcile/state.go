// Package reconcile turns the gateway's success callback into a booking.
// Each callback visit is one Attempt that moves from verifying to exactly
// one terminal state and performs its side effects at most once.
package reconcile

import "time"

// State is the position of an attempt in the confirmation flow.
type State string

const (
	StateVerifying        State = "verifying"
	StateSuccess          State = "success"
	StateFailed           State = "failed"
	StateError            State = "error"
	StateAlreadyProcessed State = "already_processed"
)

// Terminal reports whether s ends the attempt.
func (s State) Terminal() bool { return s != StateVerifying }

// Delays before the confirmation page moves on.
const (
	SuccessRedirectDelay   = 2500 * time.Millisecond
	ProcessedRedirectDelay = 1500 * time.Millisecond
	BookingsPath           = "/bookings"
	RetryPath              = "/"
)

// Outcome is what the confirmation page shows.  Message differs between a
// failed payment (retry checkout) and a paid booking we could not record
// (contact support); the two are never collapsed.
type Outcome struct {
	State           State
	Message         string
	TransactionUUID string
	BookingID       string
	RedirectTo      string
	RedirectAfter   time.Duration
	Err             error
}

func successOutcome(txUUID, bookingID string) Outcome {
	return Outcome{
		State:           StateSuccess,
		Message:         "Payment confirmed. Your tickets are being generated.",
		TransactionUUID: txUUID,
		BookingID:       bookingID,
		RedirectTo:      BookingsPath,
		RedirectAfter:   SuccessRedirectDelay,
	}
}

func failedOutcome(txUUID string) Outcome {
	return Outcome{
		State:           StateFailed,
		Message:         "Payment was not completed. You can pick your seats again and retry.",
		TransactionUUID: txUUID,
		RedirectTo:      RetryPath,
	}
}

// GatewayFailure is the outcome for the gateway's failure redirect, which
// carries no payload and changes nothing.
func GatewayFailure() Outcome { return failedOutcome("") }

func errorOutcome(txUUID string, err error) Outcome {
	return Outcome{
		State:           StateError,
		Message:         "We couldn't confirm your paid booking. Please contact support with your transaction reference.",
		TransactionUUID: txUUID,
		Err:             err,
	}
}

func processedOutcome(txUUID string) Outcome {
	return Outcome{
		State:           StateAlreadyProcessed,
		Message:         "This payment has already been processed.",
		TransactionUUID: txUUID,
		RedirectTo:      BookingsPath,
		RedirectAfter:   ProcessedRedirectDelay,
	}
}
