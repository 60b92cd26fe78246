// Package redis holds the shared Redis connection used for video events.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the process-wide Redis connection. Publisher and worker share its pool.
type Client struct {
	*redis.Client
}

// NewClient parses a redis:// or rediss:// URL, e.g. redis://:password@localhost:6379/0.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	// XREADGROUP blocks up to the worker's block timeout; keep reads from timing out first.
	opts.ReadTimeout = 10 * time.Second

	return &Client{Client: redis.NewClient(opts)}, nil
}

// Ping fails fast when Redis is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
