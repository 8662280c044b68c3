// Package repository contains data access logic for shows and bookings.
// This file defines the show repository.  A show's booked seats live in
// their own table (one row per seat) so that crediting seats is an
// additive INSERT IGNORE rather than a read-modify-write of a list.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// ShowRepo manages persistence for shows and their booked seat sets.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// GetShow loads a show together with its booked seats.  It returns
// ErrShowNotFound if there is no matching row.
func (r *ShowRepo) GetShow(ctx context.Context, id string) (*model.Show, error) {
	const q = `SELECT id, movie_title, theater_name, show_time, show_date, price,
                      premium_rows, premium_price, seat_rows, seat_cols, created_at
               FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieTitle, &s.TheaterName, &s.Time, &s.Date, &s.Price,
		&s.PremiumRows, &s.PremiumPrice, &s.SeatRows, &s.SeatCols, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	seats, err := r.bookedSeats(ctx, id)
	if err != nil {
		return nil, err
	}
	s.BookedSeats = seats
	return &s, nil
}

func (r *ShowRepo) bookedSeats(ctx context.Context, showID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seat_id FROM show_booked_seats WHERE show_id = ? ORDER BY seat_id`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MergeBookedSeats adds seatIDs to the show's booked set.  Seats already in
// the set are left untouched and seats booked concurrently by other
// sessions are never removed: the statement only inserts.  It does not
// detect that a seat was sold twice.
func (r *ShowRepo) MergeBookedSeats(ctx context.Context, showID string, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ?`, showID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrShowNotFound
	}
	if err != nil {
		return err
	}
	// Build the INSERT with placeholders for each seat.  Each row
	// requires two values.  booked_at defaults in the DB.
	var sb strings.Builder
	sb.WriteString(`INSERT IGNORE INTO show_booked_seats (show_id, seat_id) VALUES `)
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, id := range seatIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?)")
		args = append(args, showID, id)
	}
	if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("merge booked seats: %w", err)
	}
	return nil
}

// Create inserts a show row.  Used by the seed command.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (id, movie_title, theater_name, show_time, show_date, price,
                                  premium_rows, premium_price, seat_rows, seat_cols)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE movie_title = VALUES(movie_title), theater_name = VALUES(theater_name),
                                       show_time = VALUES(show_time), show_date = VALUES(show_date),
                                       price = VALUES(price), premium_rows = VALUES(premium_rows),
                                       premium_price = VALUES(premium_price), seat_rows = VALUES(seat_rows),
                                       seat_cols = VALUES(seat_cols)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.MovieTitle, s.TheaterName, s.Time, s.Date, s.Price,
		s.PremiumRows, s.PremiumPrice, s.SeatRows, s.SeatCols)
	return err
}
