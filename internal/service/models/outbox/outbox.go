package outbox

import (
	"time"
)

// Message is an audit event that could not be published to RabbitMQ
// and waits in the outbox table for the next retry.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// DefaultMaxRetries bounds the delivery attempts of a message.
const DefaultMaxRetries = 8

// Backoff returns the delay before retry number n: 30s, 60s, 120s, ...
func Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}

	return time.Duration(1<<n) * 30 * time.Second
}
