package pin

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "competitions"

// reservationKey returns the Redis key holding a pin reservation
func reservationKey(pin string) string {
	return fmt.Sprintf("%s:pin:%s", keyPrefix, pin)
}

// Reserver claims a pin so that concurrent generators never hand out the same one
type Reserver interface {
	Reserve(ctx context.Context, pin string) (bool, error)
}

// RedisStore keeps pin reservations in Redis with a TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps reservations forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

var _ Reserver = (*RedisStore)(nil)

// Reserve atomically claims pin. It returns false if the pin is already reserved.
func (s *RedisStore) Reserve(ctx context.Context, pin string) (bool, error) {
	ok, err := s.client.SetNX(ctx, reservationKey(pin), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return ok, nil
}
