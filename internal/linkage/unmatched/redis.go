package unmatched

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis set holding unmatched names.
const DefaultKey = "orglink:unmatched"

// RedisTracker shares the unmatched set across instances. Every operation is
// a single set command, so no client-side locking is needed.
type RedisTracker struct {
	client *redis.Client
	key    string
}

// RedisOption configures a RedisTracker.
type RedisOption func(*RedisTracker)

// WithKey overrides DefaultKey.
func WithKey(key string) RedisOption {
	return func(t *RedisTracker) {
		if key != "" {
			t.key = key
		}
	}
}

// NewRedis builds a tracker on an existing client.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisTracker {
	t := &RedisTracker{client: client, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Record adds rawName with SADD.
func (t *RedisTracker) Record(ctx context.Context, rawName string) error {
	if rawName == "" {
		return nil
	}
	if err := t.client.SAdd(ctx, t.key, rawName).Err(); err != nil {
		return fmt.Errorf("record unmatched name: %w", err)
	}
	return nil
}

// List returns SMEMBERS sorted.
func (t *RedisTracker) List(ctx context.Context) ([]string, error) {
	names, err := t.client.SMembers(ctx, t.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list unmatched names: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns SCARD.
func (t *RedisTracker) Count(ctx context.Context) (int64, error) {
	n, err := t.client.SCard(ctx, t.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count unmatched names: %w", err)
	}
	return n, nil
}

// Clear deletes the set.
func (t *RedisTracker) Clear(ctx context.Context) error {
	if err := t.client.Del(ctx, t.key).Err(); err != nil {
		return fmt.Errorf("clear unmatched names: %w", err)
	}
	return nil
}
