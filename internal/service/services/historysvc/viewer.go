package historysvc

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
)

// RetentionWindow is how long submitted orders stay visible.
const RetentionWindow = 5 * 24 * time.Hour

// ErrOrderNotFound is returned when expanding an order that is not loaded.
var ErrOrderNotFound = errors.New("order not found in history")

type pruner interface {
	Prune(ctx context.Context, now time.Time, window time.Duration) ([]order.Order, error)
}

// Viewer lists recently submitted orders. At most one order is expanded.
type Viewer struct {
	mu       sync.RWMutex
	store    pruner
	now      func() time.Time
	orders   []order.Order
	expanded string
}

// NewViewer creates a Viewer over the history store.
func NewViewer(store pruner, now func() time.Time) *Viewer {
	if now == nil {
		now = time.Now
	}

	return &Viewer{store: store, now: now}
}

// Load reads the history, dropping and persisting away expired orders.
// The expanded order is collapsed when it did not survive.
func (v *Viewer) Load(ctx context.Context) ([]order.Order, error) {
	orders, err := v.store.Prune(ctx, v.now(), RetentionWindow)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.orders = orders
	if v.expanded != "" && v.indexLocked(v.expanded) < 0 {
		v.expanded = ""
	}

	return slices.Clone(orders), nil
}

// Orders returns the orders of the last Load.
func (v *Viewer) Orders() []order.Order {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return slices.Clone(v.orders)
}

// Filter returns loaded orders whose customer name or id contains query,
// ignoring case. An empty query matches everything.
func (v *Viewer) Filter(query string) []order.Order {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return Filter(v.orders, query)
}

// Filter matches orders by customer name or id, ignoring case.
func Filter(orders []order.Order, query string) []order.Order {
	needle := strings.ToLower(query)
	matched := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerName()), needle) ||
			strings.Contains(strings.ToLower(o.ID), needle) {
			matched = append(matched, o)
		}
	}

	return matched
}

// Expand shows the details of one order and collapses any other.
func (v *Viewer) Expand(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.indexLocked(id) < 0 {
		return ErrOrderNotFound
	}
	v.expanded = id

	return nil
}

// Collapse hides the expanded order.
func (v *Viewer) Collapse() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.expanded = ""
}

// Toggle collapses id when it is expanded and expands it otherwise.
// It returns the id expanded afterwards, empty when none.
func (v *Viewer) Toggle(id string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.expanded == id {
		v.expanded = ""

		return "", nil
	}
	if v.indexLocked(id) < 0 {
		return v.expanded, ErrOrderNotFound
	}
	v.expanded = id

	return id, nil
}

// Expanded returns the expanded order id, empty when none.
func (v *Viewer) Expanded() string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.expanded
}

func (v *Viewer) indexLocked(id string) int {
	return slices.IndexFunc(v.orders, func(o order.Order) bool { return o.ID == id })
}
