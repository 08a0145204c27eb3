package order

import (
	"fmt"
	"strconv"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/models/orderitem"
)

// DateLayout is the layout of the human-readable order date.
const DateLayout = "02/01/2006"

// CustomerSnapshot is the customer as it was entered when the order was submitted.
type CustomerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ContactNo string `json:"contact_no"`
	Address   string `json:"address"`
}

// Order represents a submitted sales order.
type Order struct {
	ID              string                `json:"id"`
	OrderDate       string                `json:"orderDate"`
	Branch          string                `json:"branch"`
	SalesPerson     string                `json:"salesPerson"`
	CustomerPONo    string                `json:"customerPONo"`
	Customer        *CustomerSnapshot     `json:"customer"`
	BillingAddress  string                `json:"billingAddress"`
	DeliveryAddress string                `json:"deliveryAddress"`
	AccountStatus   string                `json:"accountStatus"`
	Items           []orderitem.OrderItem `json:"items"`
	Timestamp       int64                 `json:"timestamp"`
}

// NewID derives an order id from the submission time: the prefix and
// the last six digits of the unix milliseconds.
func NewID(prefix string, at time.Time) string {
	ms := strconv.FormatInt(at.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}

	return fmt.Sprintf("%s-%s", prefix, ms)
}

// CustomerName returns the snapshot name, empty when there is no customer.
func (o Order) CustomerName() string {
	if o.Customer == nil {
		return ""
	}

	return o.Customer.Name
}

// GrossTotal sums the item totals.
func (o Order) GrossTotal() float64 {
	return GrossTotal(o.Items)
}

// GrossTotal sums the totals of the given items.
func GrossTotal(items []orderitem.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Total
	}

	return total
}

// SubmittedAt returns the creation time carried by Timestamp.
func (o Order) SubmittedAt() time.Time {
	return time.UnixMilli(o.Timestamp)
}
