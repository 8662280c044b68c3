package pending

import (
	"context"
	"sync"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// MemoryStore keeps pending bookings in process memory.  It is used when no
// Redis server is configured and in tests; records do not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]model.PendingBooking
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]model.PendingBooking)}
}

func (s *MemoryStore) Save(_ context.Context, key string, rec model.PendingBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.SelectedSeats = append([]string(nil), rec.SelectedSeats...)
	s.recs[key] = rec
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (model.PendingBooking, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[key]
	if ok {
		rec.SelectedSeats = append([]string(nil), rec.SelectedSeats...)
	}
	return rec, ok, nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, key)
	return nil
}
