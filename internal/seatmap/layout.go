// Package seatmap holds the per-session seat grid of one show: which seats
// are already booked (read once from the show record) and which ones the
// current user has picked.  Selection is local and non-authoritative until a
// booking is committed.
package seatmap

import (
	"errors"
	"strconv"
	"strings"
)

// Default grid used when a show does not carry its own dimensions.
const (
	DefaultRows = 8
	DefaultCols = 10
	maxRows     = 26
)

// ErrInvalidLayout is returned for more than 26 rows or a negative size.
// Zero rows or columns select the defaults.
var ErrInvalidLayout = errors.New("seatmap: invalid layout")

// Layout describes a rectangular seat grid.  Rows are lettered from 'A',
// columns are numbered from 1.
type Layout struct {
	Rows int
	Cols int
}

// NewLayout validates the grid size.  Zero values fall back to the default.
func NewLayout(rows, cols int) (Layout, error) {
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	if rows < 0 || rows > maxRows || cols < 0 {
		return Layout{}, ErrInvalidLayout
	}
	return Layout{Rows: rows, Cols: cols}, nil
}

// RowLabels returns the row letters in order.
func (l Layout) RowLabels() []string {
	out := make([]string, l.Rows)
	for i := range out {
		out[i] = string(rune('A' + i))
	}
	return out
}

// SeatID builds the identifier of the seat in row index r (0 based) and
// column c (1 based).
func SeatID(r, c int) string {
	return string(rune('A'+r)) + strconv.Itoa(c)
}

// Contains reports whether id names a seat of this layout.
func (l Layout) Contains(id string) bool {
	r, c, ok := ParseSeatID(id)
	return ok && r < l.Rows && c <= l.Cols
}

// ParseSeatID splits "C7" into row index 2 and column 7.
func ParseSeatID(id string) (row, col int, ok bool) {
	if len(id) < 2 {
		return 0, 0, false
	}
	letter := id[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, false
	}
	num := id[1:]
	if strings.HasPrefix(num, "0") {
		return 0, 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return int(letter - 'A'), n, true
}
