package seatmap

import "github.com/iliyamo/cinema-ticket-booking/internal/model"

// Pricer prices a single seat.
type Pricer interface {
	Price(seatID string) int64
}

// Flat charges the same price for every seat of a show.
type Flat int64

// Price implements Pricer.
func (f Flat) Price(string) int64 { return int64(f) }

// RowTier charges Premium for the first PremiumRows rows and Standard for the
// rest, like the seeded theaters (front two rows at 500, others at 350).
type RowTier struct {
	PremiumRows int
	Premium     int64
	Standard    int64
}

// Price implements Pricer.
func (t RowTier) Price(seatID string) int64 {
	r, _, ok := ParseSeatID(seatID)
	if ok && r < t.PremiumRows {
		return t.Premium
	}
	return t.Standard
}

// PricerFor picks the pricing of a show: flat by default, row tiers when the
// show defines premium rows.  fallback is used when the show has no price.
func PricerFor(show *model.Show, fallback int64) Pricer {
	price := show.Price
	if price <= 0 {
		price = fallback
	}
	if show.PremiumRows > 0 {
		return RowTier{PremiumRows: show.PremiumRows, Premium: show.PremiumPrice, Standard: price}
	}
	return Flat(price)
}

// Mount builds the seat map of a show from its current booked set.
func Mount(show *model.Show, fallbackPrice int64) (*SeatMap, error) {
	layout, err := NewLayout(show.SeatRows, show.SeatCols)
	if err != nil {
		return nil, err
	}
	return New(layout, show.BookedSeats, PricerFor(show, fallbackPrice)), nil
}
