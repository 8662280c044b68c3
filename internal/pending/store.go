// Package pending persists the booking intent that has to survive the
// redirect to the payment gateway.  Records are keyed by the browser's
// handoff key, so one browser profile holds at most one pending booking.
package pending

import (
	"context"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Store is the durable handoff between checkout and the gateway callback.
// Save overwrites an unconsumed record for the same key.  Load never
// deletes; Clear is called only once the booking is confirmed.
type Store interface {
	Save(ctx context.Context, key string, rec model.PendingBooking) error
	Load(ctx context.Context, key string) (model.PendingBooking, bool, error)
	Clear(ctx context.Context, key string) error
}
