package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

func TestShows(t *testing.T) {
	shows := Shows()
	require.Len(t, shows, len(Movies)*4*4)

	first := shows[0]
	assert.Equal(t, "the-wrecking-crew_th_qfx_durbar_1100AM", first.ID)
	assert.Equal(t, 5, first.SeatRows)
	assert.Equal(t, 8, first.SeatCols)

	ids := map[string]bool{}
	for _, s := range shows {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		ids[s.ID] = true
	}
	assert.True(t, ids["inception_th_one_cinemas_600PM"])
}

func TestShows_PriceLikeTheaters(t *testing.T) {
	show := Shows()[0]
	m, err := seatmap.Mount(&show, 0)
	require.NoError(t, err)
	m.Toggle("A1")
	m.Toggle("C1")
	assert.Equal(t, int64(PremiumPrice+StandardPrice), m.Amount())
}

type recorder struct {
	n   int
	err error
}

func (r *recorder) Create(context.Context, *model.Show) error {
	if r.err != nil && r.n == 3 {
		return r.err
	}
	r.n++
	return nil
}

func TestLoad(t *testing.T) {
	r := &recorder{}
	n, err := Load(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, len(Shows()), n)

	n, err = Load(context.Background(), &recorder{err: errors.New("boom")})
	assert.Error(t, err)
	assert.Equal(t, 3, n)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "avatar--fire-and-ash", Slug("Avatar: Fire and Ash"))
}
