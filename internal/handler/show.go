// Package handler exposes the HTTP handlers of the booking front-end: show
// and seat map reads, checkout, the gateway callbacks and the bookings list.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/seatmap"
)

// ShowReader loads a show with its booked seats.
type ShowReader interface {
	GetShow(ctx context.Context, id string) (*model.Show, error)
}

// ShowHandler serves show summaries and seat maps.
type ShowHandler struct {
	Shows        ShowReader
	DefaultPrice int64 // price per seat for shows stored without one
	Logger       *zap.Logger
}

// showSummary is the cacheable part of a show; it leaves out the booked set.
type showSummary struct {
	ID           string `json:"id"`
	MovieTitle   string `json:"movie_title"`
	TheaterName  string `json:"theater_name"`
	Time         string `json:"time"`
	Date         string `json:"date"`
	Price        int64  `json:"price"`
	PremiumRows  int    `json:"premium_rows,omitempty"`
	PremiumPrice int64  `json:"premium_price,omitempty"`
}

// seatMapResponse is the seat grid as the seat picker renders it.
type seatMapResponse struct {
	Show        showSummary      `json:"show"`
	Rows        []string         `json:"rows"`
	Cols        int              `json:"cols"`
	Seats       [][]seatmap.Seat `json:"seats"`
	BookedSeats []string         `json:"booked_seats"`
}

// GetShow returns the show summary.  GET /v1/shows/:id
func (h *ShowHandler) GetShow(c echo.Context) error {
	show, status, msg := h.load(c)
	if show == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, h.summary(show))
}

// GetSeats returns the seat grid with booked seats marked.  The booked set
// is read fresh on every request.  GET /v1/shows/:id/seats
func (h *ShowHandler) GetSeats(c echo.Context) error {
	show, status, msg := h.load(c)
	if show == nil {
		return c.JSON(status, echo.Map{"error": msg})
	}
	m, err := seatmap.Mount(show, h.DefaultPrice)
	if err != nil {
		h.Logger.Error("mount seat map", zap.String("show_id", show.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid seat layout"})
	}
	booked := show.BookedSeats
	if booked == nil {
		booked = []string{}
	}
	return c.JSON(http.StatusOK, seatMapResponse{
		Show:        h.summary(show),
		Rows:        m.Layout().RowLabels(),
		Cols:        m.Layout().Cols,
		Seats:       m.Seats(),
		BookedSeats: booked,
	})
}

// load fetches the show named by the :id parameter.  On failure the show is
// nil and status and msg describe the response to send.
func (h *ShowHandler) load(c echo.Context) (show *model.Show, status int, msg string) {
	return loadShow(c, h.Shows, h.Logger)
}

func loadShow(c echo.Context, shows ShowReader, logger *zap.Logger) (*model.Show, int, string) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return nil, http.StatusBadRequest, "invalid show id"
	}
	show, err := shows.GetShow(c.Request().Context(), id)
	if errors.Is(err, repository.ErrShowNotFound) {
		return nil, http.StatusNotFound, "show not found"
	}
	if err != nil {
		logger.Error("load show", zap.String("show_id", id), zap.Error(err))
		return nil, http.StatusInternalServerError, "database error"
	}
	return show, http.StatusOK, ""
}

func (h *ShowHandler) summary(s *model.Show) showSummary {
	price := s.Price
	if price <= 0 {
		price = h.DefaultPrice
	}
	return showSummary{
		ID:           s.ID,
		MovieTitle:   s.MovieTitle,
		TheaterName:  s.TheaterName,
		Time:         s.Time,
		Date:         s.Date,
		Price:        price,
		PremiumRows:  s.PremiumRows,
		PremiumPrice: s.PremiumPrice,
	}
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
