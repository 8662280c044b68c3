package model

import "time"

// PendingBooking bridges the outbound payment redirect and the gateway
// callback.  The gateway does not echo application data, so everything
// needed to credit the seats is saved here before the redirect.
type PendingBooking struct {
	MovieTitle      string    `json:"movieTitle"`
	ShowID          string    `json:"showId"`
	TheaterName     string    `json:"theaterName"`
	Time            string    `json:"time"`
	Amount          string    `json:"amount"`
	SelectedSeats   []string  `json:"selectedSeats"`
	UserID          string    `json:"userId"`
	TransactionUUID string    `json:"transactionUuid"`
	CreatedAt       time.Time `json:"createdAt"`
}
