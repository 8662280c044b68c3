package seatmap

// Seat is one cell of the rendered grid.
type Seat struct {
	ID       string `json:"id"`
	Row      string `json:"row"`
	Number   int    `json:"number"`
	Booked   bool   `json:"booked"`
	Selected bool   `json:"selected"`
	Price    int64  `json:"price"`
}

// SeatMap tracks booked and selected seats for one user session on one show.
// It is not safe for concurrent use; a session owns its map.
type SeatMap struct {
	layout   Layout
	pricer   Pricer
	booked   map[string]bool
	selected map[string]bool
	order    []string
}

// New mounts a seat map.  booked is the show's booked set as read at mount
// time; later bookings by other sessions are not observed.
func New(layout Layout, booked []string, pricer Pricer) *SeatMap {
	if pricer == nil {
		pricer = Flat(0)
	}
	m := &SeatMap{
		layout:   layout,
		pricer:   pricer,
		booked:   make(map[string]bool, len(booked)),
		selected: make(map[string]bool),
	}
	for _, id := range booked {
		m.booked[id] = true
	}
	return m
}

// Toggle flips the selection of seatID and reports whether anything changed.
// Booked seats and ids outside the layout are ignored.
func (m *SeatMap) Toggle(seatID string) bool {
	if m.booked[seatID] || !m.layout.Contains(seatID) {
		return false
	}
	if m.selected[seatID] {
		delete(m.selected, seatID)
		for i, id := range m.order {
			if id == seatID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
		return true
	}
	m.selected[seatID] = true
	m.order = append(m.order, seatID)
	return true
}

// Selected returns the selected seats in the order they were picked.
func (m *SeatMap) Selected() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// IsBooked reports whether seatID was booked when the map was mounted.
func (m *SeatMap) IsBooked(seatID string) bool { return m.booked[seatID] }

// IsSelected reports whether seatID is in the current selection.
func (m *SeatMap) IsSelected(seatID string) bool { return m.selected[seatID] }

// Count is the number of selected seats.
func (m *SeatMap) Count() int { return len(m.order) }

// CanCheckout is false while nothing is selected.
func (m *SeatMap) CanCheckout() bool { return len(m.order) > 0 }

// Amount is the price of the current selection.  It is computed on every
// call so it always reflects the latest toggle.
func (m *SeatMap) Amount() int64 {
	var total int64
	for _, id := range m.order {
		total += m.pricer.Price(id)
	}
	return total
}

// Layout returns the grid dimensions.
func (m *SeatMap) Layout() Layout { return m.layout }

// Seats returns the grid row by row for rendering.
func (m *SeatMap) Seats() [][]Seat {
	rows := make([][]Seat, 0, m.layout.Rows)
	for r, label := range m.layout.RowLabels() {
		row := make([]Seat, 0, m.layout.Cols)
		for c := 1; c <= m.layout.Cols; c++ {
			id := SeatID(r, c)
			row = append(row, Seat{
				ID:       id,
				Row:      label,
				Number:   c,
				Booked:   m.booked[id],
				Selected: m.selected[id],
				Price:    m.pricer.Price(id),
			})
		}
		rows = append(rows, row)
	}
	return rows
}
