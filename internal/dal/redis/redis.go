package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"
)

// Client represents a Redis client.
type Client struct {
	client *goredis.Client
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *goredis.Client {
	return c.client
}

// Close closes the connection for graceful shutdown.
func (c *Client) Close() error {
	return c.client.Close()
}

// MustNewClient creates a new Redis client from REDIS_URL, or from
// REDIS_ADDR/REDIS_PASSWORD when no URL is set.
func MustNewClient() *Client {
	var opt *goredis.Options
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		parsed, err := goredis.ParseURL(redisURL)
		if err != nil {
			panic(fmt.Sprintf("Failed to parse Redis URL: %v", err))
		}
		opt = parsed
	} else {
		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		opt = &goredis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}

	slog.Info("Redis connected", "addr", opt.Addr)

	return &Client{client: client}
}
