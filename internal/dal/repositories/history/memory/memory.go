package memory

import (
	"context"
	"sync"
)

// HistoryRepository keeps history slots in process memory.
type HistoryRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewHistoryRepository creates an empty in-memory history repository.
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		slots: make(map[string]string),
	}
}

// Get returns the slot value.
func (r *HistoryRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.slots[key]

	return value, ok, nil
}

// Set replaces the slot value.
func (r *HistoryRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[key] = value

	return nil
}

// Clear removes the slot.
func (r *HistoryRepository) Clear(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.slots, key)

	return nil
}
