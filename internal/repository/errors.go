// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the reconciler to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrShowNotFound indicates that a show was not located in the DB.
// Handlers should translate this into an HTTP 404 response.
var ErrShowNotFound = errors.New("show not found")

// ErrBookingNotFound is returned when no booking matches a lookup.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateBooking is returned when a booking for the same transaction
// uuid already exists.  The unique key on transaction_uuid is what keeps a
// replayed callback from producing a second receipt.
var ErrDuplicateBooking = errors.New("booking already recorded for transaction")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
