package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/checkout"
	"github.com/iliyamo/cinema-ticket-booking/internal/esewa"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/pending"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

type stubShows map[string]*model.Show

func (s stubShows) GetShow(_ context.Context, id string) (*model.Show, error) {
	if id == "boom" {
		return nil, errors.New("connection refused")
	}
	show, ok := s[id]
	if !ok {
		return nil, repository.ErrShowNotFound
	}
	return show, nil
}

var shows = stubShows{
	"s1": {ID: "s1", MovieTitle: "Inception", TheaterName: "QFX Cinemas", Time: "6:00 PM", BookedSeats: []string{"A1"}},
	"tier": {ID: "tier", MovieTitle: "Dune", SeatRows: 3, SeatCols: 2, Price: 350, PremiumRows: 1, PremiumPrice: 500},
}

func call(h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	parts := strings.Split(strings.Trim(target, "/"), "/")
	c.SetParamNames("id")
	c.SetParamValues(parts[2])
	if setup != nil {
		setup(c)
	}
	_ = h(c)
	return rec
}

func TestShowHandler_GetSeats(t *testing.T) {
	h := &ShowHandler{Shows: shows, DefaultPrice: 500, Logger: zap.NewNop()}

	rec := call(h.GetSeats, http.MethodGet, "/v1/shows/s1/seats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body seatMapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Rows, 8)
	assert.Equal(t, 10, body.Cols)
	assert.True(t, body.Seats[0][0].Booked)
	assert.False(t, body.Seats[0][1].Booked)
	assert.Equal(t, int64(500), body.Show.Price)
	assert.Equal(t, []string{"A1"}, body.BookedSeats)
}

func TestShowHandler_RowTierPrices(t *testing.T) {
	h := &ShowHandler{Shows: shows, DefaultPrice: 500, Logger: zap.NewNop()}

	rec := call(h.GetSeats, http.MethodGet, "/v1/shows/tier/seats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body seatMapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(500), body.Seats[0][0].Price)
	assert.Equal(t, int64(350), body.Seats[2][1].Price)
}

func TestShowHandler_Errors(t *testing.T) {
	h := &ShowHandler{Shows: shows, DefaultPrice: 500, Logger: zap.NewNop()}

	assert.Equal(t, http.StatusNotFound, call(h.GetShow, http.MethodGet, "/v1/shows/missing", "", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, call(h.GetShow, http.MethodGet, "/v1/shows/boom", "", nil).Code)
}

func newCheckout(store pending.Store) *CheckoutHandler {
	cfg := checkout.Config{
		Merchant:   esewa.Merchant{FormURL: esewa.SandboxFormURL, ProductCode: esewa.SandboxProductCode, SecretKey: []byte(esewa.SandboxSecretKey)},
		SuccessURL: "http://x/payment/success",
		FailureURL: "http://x/payment/failure",
	}
	return &CheckoutHandler{Shows: shows, Orchestrator: checkout.New(store, cfg, nil), DefaultPrice: 500, Logger: zap.NewNop()}
}

func authed(c echo.Context) {
	c.Set("user_id", "user-1")
	c.Set("handoff_key", "k1")
}

func TestCheckout_OnlyBookedSeats(t *testing.T) {
	store := pending.NewMemoryStore()
	rec := call(newCheckout(store).Checkout, http.MethodPost, "/v1/shows/s1/checkout", `{"seats":["A1"]}`, authed)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "A1")
	_, found, _ := store.Load(context.Background(), "k1")
	assert.False(t, found)
}

func TestCheckout_DuplicatesCountOnce(t *testing.T) {
	store := pending.NewMemoryStore()
	rec := call(newCheckout(store).Checkout, http.MethodPost, "/v1/shows/s1/checkout", `{"seats":["b2","B2","B3"]}`, authed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p, found, err := store.Load(context.Background(), "k1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"B2", "B3"}, p.SelectedSeats)
	assert.Equal(t, "1000", p.Amount)
	assert.Equal(t, "user-1", p.UserID)
}

func TestCheckout_Validation(t *testing.T) {
	store := pending.NewMemoryStore()
	h := newCheckout(store)

	assert.Equal(t, http.StatusBadRequest, call(h.Checkout, http.MethodPost, "/v1/shows/s1/checkout", `{"seats":[]}`, authed).Code)
	assert.Equal(t, http.StatusNotFound, call(h.Checkout, http.MethodPost, "/v1/shows/zzz/checkout", `{"seats":["A2"]}`, authed).Code)
	assert.Equal(t, http.StatusUnauthorized, call(h.Checkout, http.MethodPost, "/v1/shows/s1/checkout", `{"seats":["A2"]}`, func(c echo.Context) {
		c.Set("handoff_key", "k1")
	}).Code)
	assert.Equal(t, http.StatusBadRequest, call(h.Checkout, http.MethodPost, "/v1/shows/s1/checkout", `{"seats":["A2"]}`, func(c echo.Context) {
		c.Set("user_id", "user-1")
	}).Code)
}

type failingLister struct{}

func (failingLister) ListByUser(context.Context, string) ([]model.Booking, error) {
	return nil, errors.New("db down")
}

func TestBookingHandler_ListError(t *testing.T) {
	h := &BookingHandler{Bookings: failingLister{}, Logger: zap.NewNop()}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/bookings", nil), rec)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNormalizeSeats(t *testing.T) {
	assert.Equal(t, []string{"A1", "A2", "B3"}, normalizeSeats([]string{" a1 ,A2", "a1", "", "B3"}))
	assert.Empty(t, normalizeSeats(nil))
}
