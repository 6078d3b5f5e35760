package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection for refresh-token storage and rate
// limiting.
type Client struct {
	rdb *goredis.Client
}

// NewClient creates a Redis client from a URL and verifies the connection.
func NewClient(redisURL string) (*Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// NewClientFromRedis wraps an existing go-redis client. Used by tests.
func NewClientFromRedis(rdb *goredis.Client) *Client {
	return &Client{rdb: rdb}
}

// Ping checks the Redis connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

const refreshTokenPrefix = "refresh:"

// StoreRefreshToken maps a refresh token to a user ID with an expiry.
func (c *Client) StoreRefreshToken(ctx context.Context, token string, userID int64, expiry time.Duration) error {
	return c.rdb.Set(ctx, refreshTokenPrefix+token, userID, expiry).Err()
}

// GetRefreshTokenUserID returns the user ID associated with a refresh token.
func (c *Client) GetRefreshTokenUserID(ctx context.Context, token string) (int64, error) {
	val, err := c.rdb.Get(ctx, refreshTokenPrefix+token).Result()
	if err == goredis.Nil {
		return 0, fmt.Errorf("refresh token not found")
	}
	if err != nil {
		return 0, fmt.Errorf("getting refresh token: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing user ID: %w", err)
	}
	return userID, nil
}

// DeleteRefreshToken removes a refresh token.
func (c *Client) DeleteRefreshToken(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, refreshTokenPrefix+token).Err()
}

// rateLimitScript atomically increments a counter, sets its TTL on first
// use, and returns the count together with the remaining TTL.
var rateLimitScript = goredis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// CheckRateLimit runs a fixed-window counter for key. It returns whether
// the request is allowed, the current count, and the window's remaining
// TTL in milliseconds.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, int64, error) {
	res, err := rateLimitScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, 0, fmt.Errorf("checking rate limit: %w", err)
	}
	if len(res) != 2 {
		return false, 0, 0, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}
	count, ttlMs := res[0], res[1]
	return count <= int64(limit), count, ttlMs, nil
}
