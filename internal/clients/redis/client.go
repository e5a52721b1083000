package redis

import (
	"baysawaar-server/internal/config"
	"baysawaar-server/internal/observability"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotInitialized = errors.New("redis client not initialized")

// Client wraps the Redis client with observability
type Client struct {
	client *redis.Client
	logger *observability.Logger
}

// NewClient creates a new Redis client. It returns nil when Redis is disabled.
func NewClient(cfg config.RedisConfig, logger *observability.Logger) (*Client, error) {
	if !cfg.Enabled {
		logger.Info(context.Background(), "Redis is disabled, skipping client initialization")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info(ctx, "successfully connected to Redis",
		observability.Field{Key: "host", Value: cfg.Host},
		observability.Field{Key: "port", Value: cfg.Port},
		observability.Field{Key: "db", Value: cfg.DB},
	)

	return NewFromClient(client, logger), nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client, logger *observability.Logger) *Client {
	return &Client{client: client, logger: logger}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrNotInitialized
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SlidingWindow records one hit at now in the sorted set under key and
// returns the number of hits inside the window before this one, along
// with the oldest hit still inside it. The hit is only recorded when the
// count is below limit.
func (c *Client) SlidingWindow(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (int, time.Time, error) {
	if !c.IsEnabled() {
		return 0, time.Time{}, ErrNotInitialized
	}

	windowStart := now.Add(-window).UnixMilli()
	if err := c.client.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10)).Err(); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to remove old entries: %w", err)
	}

	count, err := c.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to count entries: %w", err)
	}

	var oldest time.Time
	first, err := c.client.ZRangeWithScores(ctx, key, 0, 0).Result()
	if err == nil && len(first) > 0 {
		oldest = time.UnixMilli(int64(first[0].Score))
	}

	if int(count) >= limit {
		return int(count), oldest, nil
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), count)
	if err := c.client.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member}).Err(); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to add entry: %w", err)
	}

	if err := c.client.Expire(ctx, key, 2*window).Err(); err != nil {
		c.logger.Warn(ctx, "failed to set expiration on sliding window key",
			observability.Field{Key: "key", Value: key},
			observability.Field{Key: "error", Value: err.Error()},
		)
	}
	if oldest.IsZero() {
		oldest = now
	}
	return int(count), oldest, nil
}

// IsEnabled returns whether Redis is enabled
func (c *Client) IsEnabled() bool {
	return c != nil && c.client != nil
}
