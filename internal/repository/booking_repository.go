package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// BookingRepo stores booking receipts.  Bookings are insert-only.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, show_id, movie_title, theater_name, show_time, seats,
                        amount, total_price, transaction_id, transaction_uuid, status, created_at`

// CreateBooking inserts b and returns its ID.  ErrDuplicateBooking is
// returned when the transaction uuid has already been recorded.
func (r *BookingRepo) CreateBooking(ctx context.Context, b model.Booking) (string, error) {
	seats, err := json.Marshal(b.Seats)
	if err != nil {
		return "", err
	}
	const q = `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		b.ID, b.UserID, b.ShowID, b.MovieTitle, b.TheaterName, b.Time, string(seats),
		b.Amount, b.TotalPrice, b.TransactionID, b.TransactionUUID, b.Status, b.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return "", ErrDuplicateBooking
		}
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return b.ID, nil
}

// FindByTransactionUUID returns the booking recorded for a transaction, or
// ErrBookingNotFound.
func (r *BookingRepo) FindByTransactionUUID(ctx context.Context, txUUID string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE transaction_uuid = ? LIMIT 1`, txUUID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*model.Booking, error) {
	var b model.Booking
	var seats string
	if err := s.Scan(&b.ID, &b.UserID, &b.ShowID, &b.MovieTitle, &b.TheaterName, &b.Time, &seats,
		&b.Amount, &b.TotalPrice, &b.TransactionID, &b.TransactionUUID, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(seats), &b.Seats); err != nil {
		return nil, fmt.Errorf("decode seats of booking %s: %w", b.ID, err)
	}
	return &b, nil
}
