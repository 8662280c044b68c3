package model

import "time"

// BookingStatusPaid is the only status this service writes.
const BookingStatusPaid = "Paid"

// Booking is the receipt created once per confirmed payment.  It is
// append-only: nothing in this service updates a booking after insert.
//
// Fields:
//  ID              – generated identifier.
//  UserID          – authenticated user who paid.
//  ShowID          – show whose seats were credited.
//  MovieTitle      – copied from the pending booking for display.
//  TheaterName     – copied from the pending booking for display.
//  Time            – showtime label.
//  Seats           – seat identifiers credited to the user.
//  Amount          – amount charged, integer rupees as a string.
//  TotalPrice      – same as Amount; kept for receipt rendering.
//  TransactionID   – gateway transaction_code.
//  TransactionUUID – transaction uuid generated at checkout.
//  Status          – always "Paid".
//  CreatedAt       – when the booking was recorded.
type Booking struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ShowID          string    `json:"show_id"`
	MovieTitle      string    `json:"movie_title"`
	TheaterName     string    `json:"theater_name"`
	Time            string    `json:"time"`
	Seats           []string  `json:"seats"`
	Amount          string    `json:"amount"`
	TotalPrice      string    `json:"total_price"`
	TransactionID   string    `json:"transaction_id"`
	TransactionUUID string    `json:"transaction_uuid"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
