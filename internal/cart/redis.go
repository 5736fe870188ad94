package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// snapshotKeyPrefix is the logical key carts are stored under.
const snapshotKeyPrefix = "cart"

// RedisStore is a Redis-backed SnapshotStore. Snapshots do not expire; a
// cart survives until the shopper clears it or completes an order.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a SnapshotStore backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	data, err := s.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, data []byte) error {
	if err := s.client.Set(ctx, snapshotKey(sessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, sessionID)
}
