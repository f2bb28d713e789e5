package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/offerkit/countdown-go/pkg/deadline"
)

// DefaultRedisPrefix namespaces countdown keys in a shared Redis.
const DefaultRedisPrefix = "countdown:"

// RedisExpiryGrace is added to a deadline's remaining time when deriving the
// Redis key TTL, so an expiring countdown can still read its own entry.
const RedisExpiryGrace = time.Minute

// RedisBackend persists deadlines in Redis.
// Keys whose value is a future deadline get a Redis TTL, so entries left
// behind by a process that died before expiry clean themselves up.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisBackend creates a Redis-backed deadline backend.
func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	return &RedisBackend{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (r *RedisBackend) key(key string) string {
	return r.prefix + key
}

// Load returns the value stored under key.
func (r *RedisBackend) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Save stores value under key.
func (r *RedisBackend) Save(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, r.ttl(value)).Err()
}

// Delete removes key.
func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// ttl returns the expiry for a stored value, or 0 (no expiry) if the value
// is not a future deadline.
func (r *RedisBackend) ttl(value string) time.Duration {
	d, err := deadline.Parse(value)
	if err != nil {
		return 0
	}
	remaining := d.Remaining(r.now())
	if remaining <= 0 {
		return RedisExpiryGrace
	}
	return remaining + RedisExpiryGrace
}

// Compile-time interface satisfaction check.
var _ deadline.Backend = (*RedisBackend)(nil)
