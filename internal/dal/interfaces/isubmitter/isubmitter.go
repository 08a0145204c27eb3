package isubmitter

import (
	"context"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
)

// ISubmitter delivers a finished order to the submission endpoint.
type ISubmitter interface {
	Submit(ctx context.Context, o order.Order) error
}
