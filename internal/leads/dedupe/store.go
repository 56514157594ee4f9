// Package dedupe remembers which calls already produced a lead, so a
// provider retrying the same webhook does not post the lead twice.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "marmurfit:lead:"

// Store claims keys in Redis with SET NX and a TTL.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// New creates a store; ttl bounds how long a call ID is remembered.
func New(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Claim returns true the first time key is seen within the TTL.
func (s *Store) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim lead key: %w", err)
	}
	return ok, nil
}

// Release forgets key so a later redelivery is accepted again.
func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release lead key: %w", err)
	}
	return nil
}
