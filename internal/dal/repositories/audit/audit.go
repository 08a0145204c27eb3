package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/portal/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/portal/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/portal/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/portal/internal/service/models/order"
	"github.com/corray333/backend-labs/portal/internal/service/models/outbox"
	"golang.org/x/sync/errgroup"
)

// QueueOrderSubmitted receives an event per submitted order.
const QueueOrderSubmitted = "portal.order.submitted"

const contentTypeJSON = "application/json"

type publisher interface {
	Publish(exchange, routingKey, contentType string, body []byte) error
}

// AuditRabbitMQRepository publishes submission events. Events that cannot
// be published are parked in the outbox for the outbox worker.
type AuditRabbitMQRepository struct {
	publisher  publisher
	outboxRepo ioutboxrepo.IOutboxRepository
	queueName  string
	now        func() time.Time
}

// NewAuditRabbitMQRepository declares the audit queue and creates the repository.
func NewAuditRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *AuditRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       QueueOrderSubmitted,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return newAuditRepository(client, outboxRepo, queue.Name)
}

func newAuditRepository(
	pub publisher,
	outboxRepo ioutboxrepo.IOutboxRepository,
	queueName string,
) *AuditRabbitMQRepository {
	return &AuditRabbitMQRepository{
		publisher:  pub,
		outboxRepo: outboxRepo,
		queueName:  queueName,
		now:        time.Now,
	}
}

// LogSubmitted publishes one event per order. It fails only when an event
// could neither be published nor stored in the outbox.
func (r *AuditRabbitMQRepository) LogSubmitted(ctx context.Context, orders ...order.Order) error {
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	g, gctx := errgroup.WithContext(auditCtx)
	g.SetLimit(3)

	for _, ord := range orders {
		g.Go(func() error {
			payload, err := json.Marshal(auditlog.FromOrder(ord))
			if err != nil {
				return err
			}

			pubErr := r.publisher.Publish("", r.queueName, contentTypeJSON, payload)
			if pubErr == nil {
				return nil
			}

			slog.WarnContext(gctx, "Failed to publish audit event, parking it in outbox",
				"order_id", ord.ID,
				"error", pubErr,
			)

			return r.park(gctx, payload, pubErr)
		})
	}

	return g.Wait()
}

func (r *AuditRabbitMQRepository) park(ctx context.Context, payload []byte, cause error) error {
	if r.outboxRepo == nil {
		return fmt.Errorf("failed to publish audit event: %w", cause)
	}

	now := r.now()
	err := r.outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   r.queueName,
		RoutingKey:  r.queueName,
		Payload:     payload,
		ContentType: contentTypeJSON,
		MaxRetries:  outbox.DefaultMaxRetries,
		LastError:   cause.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now.Add(outbox.Backoff(0)),
	})
	if err != nil {
		return fmt.Errorf("failed to park audit event: %w", err)
	}

	return nil
}
