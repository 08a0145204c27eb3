package iauditrepo

import (
	"context"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
)

// IAuditorRepository is interface for auditor repository.
type IAuditorRepository interface {
	LogSubmitted(ctx context.Context, orders ...order.Order) error
}
