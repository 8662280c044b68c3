// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// BookingConfirmedQueue is the durable queue booking events are published to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a payment callback has been
// reconciled into a booking.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// booking store.
type BookingConfirmedEvent struct {
	BookingID       string   `json:"booking_id"`
	UserID          string   `json:"user_id"`
	ShowID          string   `json:"show_id"`
	MovieTitle      string   `json:"movie_title"`
	TheaterName     string   `json:"theater_name"`
	Time            string   `json:"time"`
	Seats           []string `json:"seats"`
	Amount          string   `json:"amount"`
	TransactionID   string   `json:"transaction_id"`
	TransactionUUID string   `json:"transaction_uuid"`
	ConfirmedAt     string   `json:"confirmed_at"`
}
