package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "bankrag:session:"

// RedisStore keeps each session's turns in a Redis list, one JSON-encoded
// turn per element. Redis provides the cross-process concurrency control;
// this layer only appends and reads suffixes.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. ttl <= 0 keeps sessions forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Append implements Store.
func (r *RedisStore) Append(ctx context.Context, turn domain.Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("history: marshal turn: %w", err)
	}

	key := sessionKeyPrefix + turn.SessionID
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("history: rpush %s: %w", key, err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key, r.ttl).Err(); err != nil {
			return fmt.Errorf("history: expire %s: %w", key, err)
		}
	}
	return nil
}

// RecentBySession implements Store. LRANGE with a negative start returns the
// suffix, already in chronological order.
func (r *RedisStore) RecentBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	key := sessionKeyPrefix + sessionID
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	raw, err := r.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("history: lrange %s: %w", key, err)
	}

	turns := make([]domain.Turn, 0, len(raw))
	for _, item := range raw {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("history: decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
