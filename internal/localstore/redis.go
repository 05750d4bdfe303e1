package localstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisBlobs interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	GuestKey(guestID, name string) string
}

// RedisStore keeps guest collections server-side, one key per guest and
// collection, expiring after ttl.
type RedisStore struct {
	client  redisBlobs
	guestID string
	ttl     time.Duration
}

func NewRedisStore(client redisBlobs, guestID string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, fmt.Errorf("guest id is required")
	}
	return &RedisStore{client: client, guestID: guestID, ttl: ttl}, nil
}

func (r *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.GuestKey(r.guestID, key))
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.client.GuestKey(r.guestID, key), string(data), r.ttl)
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.GuestKey(r.guestID, key))
}
