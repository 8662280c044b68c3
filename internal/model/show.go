package model

import "time"

// Show represents one scheduled screening of a movie at a theater.  The
// booked seat set is owned by the show store; this service reads it when a
// seat map is mounted and only ever adds to it.
//
// Fields:
//  ID          – show identifier (e.g. "inception_th_qfx_durbar_600PM").
//  MovieTitle  – title displayed on the seat map and receipts.
//  TheaterName – theater where the show takes place.
//  Time        – showtime label ("6:00 PM").
//  Date        – show date ("2026-02-10").
//  Price       – flat price per seat in rupees.
//  PremiumRows – rows charged PremiumPrice instead of Price (0 disables tiers).
//  PremiumPrice – price per seat in premium rows.
//  SeatRows    – number of seat rows (lettered from A).
//  SeatCols    – seats per row.
//  BookedSeats – seat identifiers already sold.
type Show struct {
	ID           string    `json:"id"`
	MovieTitle   string    `json:"movie_title"`
	TheaterName  string    `json:"theater_name"`
	Time         string    `json:"time"`
	Date         string    `json:"date"`
	Price        int64     `json:"price"`
	PremiumRows  int       `json:"premium_rows,omitempty"`
	PremiumPrice int64     `json:"premium_price,omitempty"`
	SeatRows     int       `json:"seat_rows"`
	SeatCols     int       `json:"seat_cols"`
	BookedSeats  []string  `json:"booked_seats"`
	CreatedAt    time.Time `json:"-"`
}
