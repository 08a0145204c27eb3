package auditlog

import (
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
)

// EventOrderSubmitted is the type of the event published after a submission.
const EventOrderSubmitted = "order.submitted"

// OrderSubmitted is the audit record of an order accepted by the submission endpoint.
type OrderSubmitted struct {
	Event        string    `json:"event"`
	OrderID      string    `json:"orderId"`
	Branch       string    `json:"branch"`
	SalesPerson  string    `json:"salesPerson"`
	CustomerName string    `json:"customerName"`
	ItemCount    int       `json:"itemCount"`
	GrossTotal   float64   `json:"grossTotal"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

// FromOrder builds the audit record of a submitted order.
func FromOrder(o order.Order) OrderSubmitted {
	return OrderSubmitted{
		Event:        EventOrderSubmitted,
		OrderID:      o.ID,
		Branch:       o.Branch,
		SalesPerson:  o.SalesPerson,
		CustomerName: o.CustomerName(),
		ItemCount:    len(o.Items),
		GrossTotal:   o.GrossTotal(),
		SubmittedAt:  o.SubmittedAt().UTC(),
	}
}
