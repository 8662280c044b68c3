package pending

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

func sampleRecord() model.PendingBooking {
	return model.PendingBooking{
		MovieTitle:      "Inception",
		ShowID:          "s1",
		TheaterName:     "QFX Cinemas",
		Time:            "6:00 PM",
		Amount:          "10",
		SelectedSeats:   []string{"A1", "A2"},
		UserID:          "user-1",
		TransactionUUID: "TXN-1",
		CreatedAt:       time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "pending", ttl), mr
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := newRedisStore(t, time.Hour)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := sampleRecord()

			_, ok, err := s.Load(ctx, "k1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Save(ctx, "k1", rec))

			got, ok, err := s.Load(ctx, "k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, rec, got)

			// load does not consume
			_, ok, err = s.Load(ctx, "k1")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, s.Clear(ctx, "k1"))
			_, ok, err = s.Load(ctx, "k1")
			require.NoError(t, err)
			assert.False(t, ok)

			// clearing twice is fine
			require.NoError(t, s.Clear(ctx, "k1"))
		})
	}
}

func TestStores_SaveOverwrites(t *testing.T) {
	redisStore, _ := newRedisStore(t, 0)
	for name, s := range map[string]Store{"memory": NewMemoryStore(), "redis": redisStore} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := sampleRecord()
			second := sampleRecord()
			second.SelectedSeats = []string{"C3"}
			second.Amount = "5"

			require.NoError(t, s.Save(ctx, "k", first))
			require.NoError(t, s.Save(ctx, "k", second))

			got, ok, err := s.Load(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []string{"C3"}, got.SelectedSeats)
			assert.Equal(t, "5", got.Amount)
		})
	}
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "k", sampleRecord()))
	assert.Equal(t, time.Minute, mr.TTL("pending:k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := s.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	require.NoError(t, mr.Set("pending:k", "{not json"))
	_, ok, err := s.Load(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_CopiesSeats(t *testing.T) {
	s := NewMemoryStore()
	rec := sampleRecord()
	require.NoError(t, s.Save(context.Background(), "k", rec))
	rec.SelectedSeats[0] = "Z9"

	got, _, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.SelectedSeats[0])
}
