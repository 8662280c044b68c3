package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/esewa"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/pending"
	"github.com/iliyamo/cinema-ticket-booking/internal/queue"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

var (
	ErrUnauthenticated  = errors.New("reconcile: no authenticated user")
	ErrMissingPayload   = errors.New("reconcile: callback without payment data")
	ErrNoPendingBooking = errors.New("reconcile: no pending booking for this browser")
	ErrMismatch         = errors.New("reconcile: callback does not match pending booking")
)

// ShowStore is the part of the show collaborator the reconciler writes to.
type ShowStore interface {
	MergeBookedSeats(ctx context.Context, showID string, seatIDs []string) error
}

// BookingStore records receipts and finds them by transaction.
// FindByTransactionUUID returns repository.ErrBookingNotFound when absent.
type BookingStore interface {
	CreateBooking(ctx context.Context, b model.Booking) (string, error)
	FindByTransactionUUID(ctx context.Context, txUUID string) (*model.Booking, error)
}

// Publisher announces confirmed bookings.  Failures are logged only.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Reconciler holds the collaborators shared by all attempts.
type Reconciler struct {
	shows     ShowStore
	bookings  BookingStore
	pending   pending.Store
	secret    []byte
	publisher Publisher
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// New returns a Reconciler.  secret verifies signed callbacks; publisher
// may be nil.
func New(shows ShowStore, bookings BookingStore, store pending.Store, secret []byte, publisher Publisher, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		shows:     shows,
		bookings:  bookings,
		pending:   store,
		secret:    secret,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Attempt is one visit to the confirmation route.  Run executes the
// reconciliation once; later calls return the first outcome.
type Attempt struct {
	r   *Reconciler
	key string

	once    sync.Once
	mu      sync.Mutex
	state   State
	outcome Outcome
}

// Begin starts an attempt for the pending booking filed under handoffKey.
func (r *Reconciler) Begin(handoffKey string) *Attempt {
	return &Attempt{r: r, key: handoffKey, state: StateVerifying}
}

// State returns the current state of the attempt.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Run reconciles the callback payload data for userID.
func (a *Attempt) Run(ctx context.Context, userID, data string) Outcome {
	a.once.Do(func() {
		out := a.r.reconcile(ctx, a.key, userID, data)
		a.mu.Lock()
		a.state = out.State
		a.outcome = out
		a.mu.Unlock()
	})
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

func (r *Reconciler) reconcile(ctx context.Context, key, userID, data string) Outcome {
	log := r.logger.With(zap.String("user_id", userID))

	// Reconciling against an anonymous context could credit seats to nobody.
	if userID == "" {
		log.Warn("payment callback without authenticated user")
		return errorOutcome("", ErrUnauthenticated)
	}

	var (
		rec   model.PendingBooking
		found bool
	)
	if key != "" {
		var err error
		rec, found, err = r.pending.Load(ctx, key)
		if err != nil {
			log.Error("load pending booking failed", zap.Error(err))
			return errorOutcome("", fmt.Errorf("load pending booking: %w", err))
		}
	}

	if data == "" {
		if !found {
			return processedOutcome("")
		}
		log.Warn("payment callback without data", zap.String("transaction_uuid", rec.TransactionUUID))
		return errorOutcome(rec.TransactionUUID, ErrMissingPayload)
	}

	cb, err := esewa.DecodeCallback(data)
	if err != nil {
		log.Warn("malformed payment callback", zap.Error(err))
		return errorOutcome(rec.TransactionUUID, err)
	}
	log = log.With(zap.String("transaction_uuid", cb.TransactionUUID))
	if err := esewa.VerifyCallback(cb, r.secret); err != nil {
		log.Warn("payment callback failed verification", zap.Error(err))
		return errorOutcome(cb.TransactionUUID, err)
	}

	if !cb.Complete() {
		log.Info("payment not completed", zap.String("status", cb.Status))
		return failedOutcome(cb.TransactionUUID)
	}

	// A reload after success finds the booking already recorded.
	existing, err := r.bookings.FindByTransactionUUID(ctx, cb.TransactionUUID)
	switch {
	case err == nil:
		if existing.UserID != userID {
			log.Error("callback replayed by another user", zap.String("booking_user_id", existing.UserID))
			return errorOutcome(cb.TransactionUUID, fmt.Errorf("%w: booking owner", ErrMismatch))
		}
		if found {
			r.clear(ctx, log, key)
		}
		return processedOutcome(cb.TransactionUUID).withBooking(existing.ID)
	case !errors.Is(err, repository.ErrBookingNotFound):
		log.Error("lookup booking failed", zap.Error(err))
		return errorOutcome(cb.TransactionUUID, fmt.Errorf("lookup booking: %w", err))
	}

	if !found {
		log.Error("paid callback with no pending booking")
		return errorOutcome(cb.TransactionUUID, ErrNoPendingBooking)
	}
	if rec.TransactionUUID != "" && rec.TransactionUUID != cb.TransactionUUID {
		log.Error("callback transaction differs from pending booking", zap.String("pending_transaction_uuid", rec.TransactionUUID))
		return errorOutcome(cb.TransactionUUID, fmt.Errorf("%w: transaction uuid", ErrMismatch))
	}
	if rec.UserID != "" && rec.UserID != userID {
		log.Error("callback user differs from pending booking", zap.String("pending_user_id", rec.UserID))
		return errorOutcome(cb.TransactionUUID, fmt.Errorf("%w: user", ErrMismatch))
	}

	// Seat merge and booking insert are two separate writes with no
	// transaction spanning them.
	if err := r.shows.MergeBookedSeats(ctx, rec.ShowID, rec.SelectedSeats); err != nil {
		log.Error("merge booked seats failed", zap.String("show_id", rec.ShowID), zap.Error(err))
		return errorOutcome(cb.TransactionUUID, fmt.Errorf("merge booked seats: %w", err))
	}

	b := model.Booking{
		ID:              r.newID(),
		UserID:          userID,
		ShowID:          rec.ShowID,
		MovieTitle:      rec.MovieTitle,
		TheaterName:     rec.TheaterName,
		Time:            rec.Time,
		Seats:           rec.SelectedSeats,
		Amount:          rec.Amount,
		TotalPrice:      rec.Amount,
		TransactionID:   cb.TransactionCode,
		TransactionUUID: cb.TransactionUUID,
		Status:          model.BookingStatusPaid,
		CreatedAt:       r.now().UTC(),
	}
	id, err := r.bookings.CreateBooking(ctx, b)
	if errors.Is(err, repository.ErrDuplicateBooking) {
		r.clear(ctx, log, key)
		return processedOutcome(cb.TransactionUUID)
	}
	if err != nil {
		log.Error("seats merged but booking not recorded; needs manual reconciliation",
			zap.String("show_id", rec.ShowID),
			zap.Strings("seats", rec.SelectedSeats),
			zap.String("amount", rec.Amount),
			zap.String("transaction_code", cb.TransactionCode),
			zap.Error(err),
		)
		return errorOutcome(cb.TransactionUUID, fmt.Errorf("create booking: %w", err))
	}
	b.ID = id

	r.clear(ctx, log, key)
	r.publish(ctx, log, b)
	log.Info("booking confirmed", zap.String("booking_id", id), zap.String("show_id", b.ShowID), zap.Strings("seats", b.Seats))
	return successOutcome(cb.TransactionUUID, id)
}

func (r *Reconciler) clear(ctx context.Context, log *zap.Logger, key string) {
	if err := r.pending.Clear(ctx, key); err != nil {
		// the booking lookup by transaction uuid keeps a retry harmless
		log.Warn("clear pending booking failed", zap.Error(err))
	}
}

func (r *Reconciler) publish(ctx context.Context, log *zap.Logger, b model.Booking) {
	if r.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:       b.ID,
		UserID:          b.UserID,
		ShowID:          b.ShowID,
		MovieTitle:      b.MovieTitle,
		TheaterName:     b.TheaterName,
		Time:            b.Time,
		Seats:           b.Seats,
		Amount:          b.Amount,
		TransactionID:   b.TransactionID,
		TransactionUUID: b.TransactionUUID,
		ConfirmedAt:     b.CreatedAt.Format(time.RFC3339),
	}
	if err := r.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Warn("publish booking.confirmed failed", zap.Error(err))
	}
}

func (o Outcome) withBooking(id string) Outcome {
	o.BookingID = id
	return o
}
