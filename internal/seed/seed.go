// Package seed generates the demo catalog of shows loaded by cmd/seed.
package seed

import (
	"context"
	"regexp"
	"strings"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// Seat pricing of the demo theaters: the two front rows are premium.
const (
	PremiumRows   = 2
	PremiumPrice  = 500
	StandardPrice = 350
	seatsPerRow   = 8
	showDate      = "2026-02-10"
)

type theater struct {
	id       string
	name     string
	capacity int
}

var theaters = []theater{
	{"th_qfx_durbar", "QFX Cinemas", 40},
	{"th_big_movies", "Big Movies", 32},
	{"th_fcube", "Fcube Cinemas", 40},
	{"th_one_cinemas", "One Cinemas", 24},
}

// Movies currently showing.
var Movies = []string{
	"The Wrecking Crew",
	"Zootopia 2",
	"Avatar: Fire and Ash",
	"Avengers: Endgame",
	"Titanic",
	"Inception",
	"Interstellar",
}

var showtimes = []string{"11:00 AM", "2:30 PM", "6:00 PM", "9:15 PM"}

var nonSlug = regexp.MustCompile(`[^a-z0-9]`)

// Slug lower-cases s and replaces every other character with a dash.
func Slug(s string) string { return nonSlug.ReplaceAllString(strings.ToLower(s), "-") }

// Shows returns one show per movie, theater and showtime.
func Shows() []model.Show {
	out := make([]model.Show, 0, len(Movies)*len(theaters)*len(showtimes))
	for _, title := range Movies {
		for _, th := range theaters {
			for _, tm := range showtimes {
				out = append(out, model.Show{
					ID:           Slug(title) + "_" + th.id + "_" + strings.NewReplacer(":", "", " ", "").Replace(tm),
					MovieTitle:   title,
					TheaterName:  th.name,
					Time:         tm,
					Date:         showDate,
					Price:        StandardPrice,
					PremiumRows:  PremiumRows,
					PremiumPrice: PremiumPrice,
					SeatRows:     (th.capacity + seatsPerRow - 1) / seatsPerRow,
					SeatCols:     seatsPerRow,
				})
			}
		}
	}
	return out
}

// Creator persists one show, replacing its descriptive fields if it exists.
type Creator interface {
	Create(ctx context.Context, s *model.Show) error
}

// Load writes every demo show and returns how many were written.
func Load(ctx context.Context, c Creator) (int, error) {
	shows := Shows()
	for i := range shows {
		if err := c.Create(ctx, &shows[i]); err != nil {
			return i, err
		}
	}
	return len(shows), nil
}
