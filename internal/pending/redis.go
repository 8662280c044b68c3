package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// RedisStore stores each pending booking as a JSON string under
// "<prefix>:<key>".  The TTL only bounds how long an abandoned attempt
// occupies memory; a newer Save replaces the record regardless.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore builds a RedisStore.  A zero ttl keeps records until cleared.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "pending"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(k string) string { return s.prefix + ":" + k }

func (s *RedisStore) Save(ctx context.Context, key string, rec model.PendingBooking) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("pending: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(key), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("pending: save: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (model.PendingBooking, bool, error) {
	var rec model.PendingBooking
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("pending: load: %w", err)
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, false, fmt.Errorf("pending: decode: %w", err)
	}
	return rec, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("pending: clear: %w", err)
	}
	return nil
}
