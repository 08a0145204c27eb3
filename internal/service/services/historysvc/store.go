package historysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/corray333/backend-labs/portal/internal/dal/interfaces/ihistorystore"
	"github.com/corray333/backend-labs/portal/internal/service/models/order"
	"github.com/spf13/viper"
)

// DefaultKey is the slot submitted orders are kept under.
const DefaultKey = "ginza_order_history"

// Store keeps the order history as one JSON array, newest first.
// Read-modify-write operations are serialised within the process.
type Store struct {
	mu  sync.Mutex
	kv  ihistorystore.IHistoryStore
	key string
}

// NewStore creates a Store over the slot named by history.key.
func NewStore(kv ihistorystore.IHistoryStore) *Store {
	key := viper.GetString("history.key")
	if key == "" {
		key = DefaultKey
	}

	return NewStoreWithKey(kv, key)
}

// NewStoreWithKey creates a Store over the given slot.
func NewStoreWithKey(kv ihistorystore.IHistoryStore, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Read returns the stored orders. A missing slot is an empty history, and
// so is a corrupt one: it is logged and left for the next Write to replace.
func (s *Store) Read(ctx context.Context) ([]order.Order, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read order history: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var orders []order.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		slog.ErrorContext(ctx, "Corrupt order history, treating as empty", "key", s.key, "error", err)

		return nil, nil
	}

	return orders, nil
}

// Write replaces the stored history.
func (s *Store) Write(ctx context.Context, orders []order.Order) error {
	if orders == nil {
		orders = []order.Order{}
	}

	raw, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode order history: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to write order history: %w", err)
	}

	return nil
}

// Prepend stores o in front of the existing orders.
func (s *Store) Prepend(ctx context.Context, o order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.Read(ctx)
	if err != nil {
		return err
	}

	return s.Write(ctx, append([]order.Order{o}, orders...))
}

// Prune drops orders older than window at now and returns the rest.
// The slot is rewritten only when something was dropped.
func (s *Store) Prune(ctx context.Context, now time.Time, window time.Duration) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-window).UnixMilli()
	kept := slices.DeleteFunc(slices.Clone(orders), func(o order.Order) bool {
		return o.Timestamp < cutoff
	})
	if len(kept) == len(orders) {
		return orders, nil
	}

	if err := s.Write(ctx, kept); err != nil {
		return nil, err
	}

	return kept, nil
}

// Clear removes the whole history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Clear(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear order history: %w", err)
	}

	return nil
}
