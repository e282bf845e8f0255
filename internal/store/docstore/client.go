package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ledgerbook/internal/config"
)

// Client is the narrow key-value surface the document store needs. The
// production implementation wraps go-redis; tests use the in-memory client
// so the store contract tests run without a Redis server.
type Client interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetNX sets the key only if absent; reports whether it was set.
	SetNX(ctx context.Context, key, value string) (bool, error)
	// Swap atomically replaces the value only if it still equals old.
	Swap(ctx context.Context, key, old, new string) (bool, error)
	// Del removes the key; reports whether it existed.
	Del(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Close() error
}

// swapScript compares the stored value against the caller's snapshot and
// replaces it in one atomic step. Returns 1 on success, 0 on mismatch.
const swapScript = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('SET', KEYS[1], ARGV[2])
  return 1
end
return 0
`

type redisClient struct {
	rdb *redis.Client
}

// NewRedisClient connects to Redis using the application configuration and
// verifies the connection with a ping.
func NewRedisClient(cfg *config.Config) (Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &redisClient{rdb: rdb}, nil
}

func (c *redisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisClient) SetNX(ctx context.Context, key, value string) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, 0).Result()
}

func (c *redisClient) Swap(ctx context.Context, key, old, new string) (bool, error) {
	res, err := c.rdb.Eval(ctx, swapScript, []string{key}, old, new).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (c *redisClient) Del(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisClient) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.SAdd(ctx, key, args...).Err()
}

func (c *redisClient) SRem(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.SRem(ctx, key, args...).Err()
}

func (c *redisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	return c.rdb.SMembers(ctx, key).Result()
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}
