package ihistorystore

import "context"

// IHistoryStore is a key-value store holding the raw order history slot.
type IHistoryStore interface {
	// Get returns the slot value; ok is false when the slot is empty
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the slot value
	Set(ctx context.Context, key, value string) error

	// Clear removes the slot
	Clear(ctx context.Context, key string) error
}
