package ioutboxrepo

import (
	"context"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/models/outbox"
)

// IOutboxRepository defines the interface for outbox operations.
type IOutboxRepository interface {
	// Insert adds a new message to the outbox
	Insert(ctx context.Context, msg outbox.Message) error

	// GetPendingMessages retrieves messages that are due for a retry
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error)

	// Delete removes a message after successful delivery
	Delete(ctx context.Context, id int64) error

	// UpdateRetry records a failed attempt and the time of the next one
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
