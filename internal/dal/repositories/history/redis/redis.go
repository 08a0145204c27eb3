package redisrepo

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// HistoryRepository keeps the order history slot in Redis.
type HistoryRepository struct {
	client goredis.Cmdable
}

// NewHistoryRepository creates a new Redis history repository.
func NewHistoryRepository(client goredis.Cmdable) *HistoryRepository {
	return &HistoryRepository{
		client: client,
	}
}

// Get returns the slot value.
func (r *HistoryRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get history slot: %w", err)
	}

	return value, true, nil
}

// Set replaces the slot value.
func (r *HistoryRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set history slot: %w", err)
	}

	return nil
}

// Clear removes the slot.
func (r *HistoryRepository) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear history slot: %w", err)
	}

	return nil
}
