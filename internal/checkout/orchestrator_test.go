package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticket-booking/internal/esewa"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/pending"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

var testCfg = Config{
	Merchant: esewa.Merchant{
		FormURL:     esewa.SandboxFormURL,
		ProductCode: esewa.SandboxProductCode,
		SecretKey:   []byte(esewa.SandboxSecretKey),
	},
	SuccessURL: "http://localhost:8080/payment/success",
	FailureURL: "http://localhost:8080/payment/failure",
}

func newOrchestrator(store pending.Store) *Orchestrator {
	o := New(store, testCfg, nil)
	o.now = func() time.Time { return time.UnixMilli(1700000000000) }
	o.suffix = func() string { return "abcd1234" }
	return o
}

func mount(t *testing.T, show *model.Show, toggles ...string) *seatmap.SeatMap {
	t.Helper()
	m, err := seatmap.Mount(show, 500)
	require.NoError(t, err)
	for _, id := range toggles {
		m.Toggle(id)
	}
	return m
}

func TestInitiate_StoresPendingAndSigns(t *testing.T) {
	store := pending.NewMemoryStore()
	o := newOrchestrator(store)
	show := &model.Show{ID: "s1", MovieTitle: "Inception", TheaterName: "QFX Cinemas", Time: "6:00 PM", Price: 5}

	form, err := o.Initiate(context.Background(), "handoff-1", show, mount(t, show, "A1", "A2"), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "10", form.Amount)
	assert.Equal(t, "10", form.TotalAmount)
	assert.Equal(t, "TXN-1700000000000-abcd1234", form.TransactionUUID)
	assert.Equal(t, "aUM5jdeF30pSZMYLvKvL7ZY0zEkaV0dxE3db9zMko50=", form.Signature)
	assert.Equal(t, esewa.SandboxFormURL, form.Action)
	assert.Equal(t, testCfg.SuccessURL, form.SuccessURL)
	assert.Equal(t, testCfg.FailureURL, form.FailureURL)

	rec, ok, err := store.Load(context.Background(), "handoff-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A1", "A2"}, rec.SelectedSeats)
	assert.Equal(t, "10", rec.Amount)
	assert.Equal(t, "s1", rec.ShowID)
	assert.Equal(t, "Inception", rec.MovieTitle)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, form.TransactionUUID, rec.TransactionUUID)
}

func TestInitiate_BookedSeatNeverInPayload(t *testing.T) {
	store := pending.NewMemoryStore()
	o := newOrchestrator(store)
	show := &model.Show{ID: "s1", Price: 5, BookedSeats: []string{"A1"}}

	form, err := o.Initiate(context.Background(), "k", show, mount(t, show, "A1", "B1"), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "5", form.Amount)

	rec, _, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, rec.SelectedSeats)
}

func TestInitiate_Guards(t *testing.T) {
	store := pending.NewMemoryStore()
	o := newOrchestrator(store)
	show := &model.Show{ID: "s1", Price: 5, BookedSeats: []string{"A1"}}
	ctx := context.Background()

	_, err := o.Initiate(ctx, "k", show, mount(t, show), "user-1")
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = o.Initiate(ctx, "k", show, mount(t, show, "A1"), "user-1")
	assert.ErrorIs(t, err, ErrEmptySelection, "only a booked seat was toggled")

	_, err = o.Initiate(ctx, "k", show, mount(t, show, "B1"), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = o.Initiate(ctx, "", show, mount(t, show, "B1"), "user-1")
	assert.ErrorIs(t, err, ErrNoHandoffKey)

	_, ok, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "nothing saved when checkout is refused")
}

type failingStore struct{ pending.Store }

func (failingStore) Save(context.Context, string, model.PendingBooking) error {
	return errors.New("redis down")
}

func TestInitiate_SaveFailure(t *testing.T) {
	o := newOrchestrator(failingStore{pending.NewMemoryStore()})
	show := &model.Show{ID: "s1", Price: 5}
	_, err := o.Initiate(context.Background(), "k", show, mount(t, show, "A1"), "user-1")
	assert.ErrorContains(t, err, "save pending booking")
}

func TestNewTransactionUUID_IsSignable(t *testing.T) {
	o := New(pending.NewMemoryStore(), testCfg, nil)
	a, b := o.NewTransactionUUID(), o.NewTransactionUUID()
	assert.NotEqual(t, a, b)
	assert.NoError(t, esewa.ValidateTransactionUUID(a))
	assert.Regexp(t, `^TXN-\d{13}-[0-9a-f]{8}$`, a)
}

func TestInitiate_RejectsUnsignableTransactionUUID(t *testing.T) {
	store := pending.NewMemoryStore()
	o := newOrchestrator(store)
	o.suffix = func() string { return "ab=cd" }
	show := &model.Show{ID: "s1", Price: 5}

	_, err := o.Initiate(context.Background(), "k", show, mount(t, show, "A1"), "user-1")
	assert.ErrorIs(t, err, esewa.ErrInvalidTransactionUUID)

	_, found, err := store.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
}
