package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys in Redis.
const DefaultKeyPrefix = "artexplorer:session:"

// RedisStore keeps snapshots as JSON values with a TTL, so sessions are
// shared between server instances and expire on their own.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store. A ttl of 0 keeps sessions
// until deleted.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: DefaultKeyPrefix,
		ttl:    ttl,
	}
}

// Key returns the Redis key for session id.
func (r *RedisStore) Key(id string) string {
	return r.prefix + id
}

// Load returns the snapshot for id, or ErrSessionNotFound.
func (r *RedisStore) Load(ctx context.Context, id string) (Snapshot, error) {
	data, err := r.redis.Get(ctx, r.Key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Snapshot{}, ErrSessionNotFound
		}
		StoreErrors.WithLabelValues("load").Inc()
		return Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		StoreErrors.WithLabelValues("load").Inc()
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	return snap, nil
}

// Save stores snap under id and restarts its TTL.
func (r *RedisStore) Save(ctx context.Context, id string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		StoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.redis.Set(ctx, r.Key(id), data, r.ttl).Err(); err != nil {
		StoreErrors.WithLabelValues("save").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes id.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.redis.Del(ctx, r.Key(id)).Err(); err != nil {
		StoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.redis.Ping(ctx).Err()
}
