package composersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/corray333/backend-labs/portal/internal/dal/interfaces/idirectory"
	"github.com/corray333/backend-labs/portal/internal/service/models/catalog"
	"github.com/corray333/backend-labs/portal/internal/service/models/customer"
	"github.com/corray333/backend-labs/portal/internal/service/models/order"
	"github.com/corray333/backend-labs/portal/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/portal/internal/service/models/product"
	"github.com/corray333/backend-labs/portal/internal/service/models/validation"
	"github.com/corray333/backend-labs/portal/pkg/debounce"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

var (
	// ErrSubmitInProgress is returned when a submission of the same order is still running.
	ErrSubmitInProgress = errors.New("order submission already in progress")
	// ErrSuggestionNotFound is returned when a selected id is not among the current suggestions.
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

// Field names a header or customer input of the order form.
type Field string

const (
	FieldBranch          Field = "branch"
	FieldSalesPerson     Field = "salesPerson"
	FieldCustomerPONo    Field = "customerPONo"
	FieldCustomerName    Field = "customerName"
	FieldCustomerEmail   Field = "customerEmail"
	FieldCustomerContact Field = "customerContact"
	FieldBillingAddress  Field = "billingAddress"
	FieldDeliveryAddress Field = "deliveryAddress"
	FieldAccountStatus   Field = "accountStatus"
	FieldItems           Field = "items"
)

type submitter interface {
	Submit(ctx context.Context, o order.Order) error
}

type historyWriter interface {
	Prepend(ctx context.Context, o order.Order) error
}

type auditor interface {
	LogSubmitted(ctx context.Context, orders ...order.Order) error
}

// Config tunes searching and order numbering.
type Config struct {
	DebounceDelay time.Duration
	CustomerLimit int
	ProductLimit  int
	OrderPrefix   string
	Location      *time.Location
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 300 * time.Millisecond,
		CustomerLimit: 10,
		ProductLimit:  50,
		OrderPrefix:   "GINZA",
		Location:      time.Local,
	}
}

// LoadConfig reads the composer settings from viper, falling back to DefaultConfig.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if ms := viper.GetInt("search.debounce_ms"); ms > 0 {
		cfg.DebounceDelay = time.Duration(ms) * time.Millisecond
	}
	if limit := viper.GetInt("search.customer_limit"); limit > 0 {
		cfg.CustomerLimit = limit
	}
	if limit := viper.GetInt("search.product_limit"); limit > 0 {
		cfg.ProductLimit = limit
	}
	if prefix := viper.GetString("portal.order_prefix"); prefix != "" {
		cfg.OrderPrefix = prefix
	}
	if tz := viper.GetString("portal.timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			slog.Warn("Unknown portal timezone, using local time", "timezone", tz, "error", err)
		} else {
			cfg.Location = loc
		}
	}

	return cfg
}

// Composer accumulates one sales order: header, customer, and item lines.
// Timer callbacks of the two search channels run on their own goroutines,
// so all state is guarded by mu.
type Composer struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	directory idirectory.IDirectoryRepository
	submitter submitter
	history   historyWriter
	auditor   auditor
	cfg       Config
	now       func() time.Time
	newID     func() string

	customerSearch *debounce.Debouncer
	productSearch  *debounce.Debouncer

	branch       string
	salesPerson  string
	customerPONo string

	customerName      string
	customerEmail     string
	customerContact   string
	billingAddress    string
	deliveryAddress   string
	accountStatus     string
	customerConfirmed bool
	customers         []customer.Customer

	draft    orderitem.Draft
	products []product.Product
	items    []orderitem.OrderItem

	submitting bool
}

// option is a function that configures the Composer.
type option func(*Composer)

// MustNewComposer creates a new Composer. The directory, submitter and
// history options are required.
func MustNewComposer(opts ...option) *Composer {
	c := &Composer{
		catalog:        catalog.Default(),
		cfg:            DefaultConfig(),
		now:            time.Now,
		newID:          uuid.NewString,
		customerSearch: debounce.New(),
		productSearch:  debounce.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.directory == nil || c.submitter == nil || c.history == nil {
		panic("composersvc: directory, submitter and history are required")
	}
	if c.cfg.Location == nil {
		c.cfg.Location = time.Local
	}
	c.draft = orderitem.Draft{DeliveryDate: c.today()}

	return c
}

// WithCatalog sets the reference lists.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(cat *catalog.Catalog) option {
	return func(c *Composer) {
		c.catalog = cat
	}
}

// WithDirectory sets the customer/product directory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDirectory(dir idirectory.IDirectoryRepository) option {
	return func(c *Composer) {
		c.directory = dir
	}
}

// WithSubmitter sets the submission endpoint.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSubmitter(s submitter) option {
	return func(c *Composer) {
		c.submitter = s
	}
}

// WithHistory sets the store submitted orders are written to.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithHistory(h historyWriter) option {
	return func(c *Composer) {
		c.history = h
	}
}

// WithAuditor sets the optional submission auditor.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditor(a auditor) option {
	return func(c *Composer) {
		c.auditor = a
	}
}

// WithConfig sets the search and numbering settings.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithConfig(cfg Config) option {
	return func(c *Composer) {
		c.cfg = cfg
	}
}

// WithClock sets the clock used for order ids, dates and timestamps.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(c *Composer) {
		c.now = now
	}
}

// WithIDGenerator sets the generator of item ids.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithIDGenerator(newID func() string) option {
	return func(c *Composer) {
		c.newID = newID
	}
}

// Close cancels pending searches. The composer must not be used afterwards.
func (c *Composer) Close() {
	c.customerSearch.Stop()
	c.productSearch.Stop()
}

func (c *Composer) today() string {
	return c.now().In(c.cfg.Location).Format(orderitem.DateLayout)
}

// SetHeader updates branch, salesperson or customer PO number.
// A branch change resets the salesperson and the confirmed customer.
func (c *Composer) SetHeader(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldBranch:
		if value != "" && !c.catalog.HasBranch(value) {
			return validation.NewFieldError(string(field), "unknown branch")
		}
		c.branch = value
		c.salesPerson = ""
		c.customerConfirmed = false
		c.searchCustomersLocked()
	case FieldSalesPerson:
		if value != "" && !c.catalog.HasSalesPerson(c.branch, value) {
			return validation.NewFieldError(string(field), "sales person is not on the branch roster")
		}
		c.salesPerson = value
	case FieldCustomerPONo:
		c.customerPONo = value
	default:
		return validation.NewFieldError(string(field), "unknown header field")
	}

	return nil
}

// SetCustomerDetail edits one of the customer fields. Editing the name
// drops the confirmed customer and starts a customer search.
func (c *Composer) SetCustomerDetail(field Field, value string) error {
	if field == FieldCustomerName {
		c.SetCustomerName(value)

		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldCustomerEmail:
		c.customerEmail = value
	case FieldCustomerContact:
		c.customerContact = value
	case FieldBillingAddress:
		c.billingAddress = value
	case FieldDeliveryAddress:
		c.deliveryAddress = value
	case FieldAccountStatus:
		c.accountStatus = value
	default:
		return validation.NewFieldError(string(field), "unknown customer field")
	}

	return nil
}

// SetCustomerName is the customer search box: it drops the confirmed
// customer and searches for the typed text.
func (c *Composer) SetCustomerName(text string) {
	c.SearchCustomers(text)
}

// SearchCustomers records the typed customer name and schedules a
// debounced directory lookup for it.
func (c *Composer) SearchCustomers(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customerName = text
	c.customerConfirmed = false
	c.searchCustomersLocked()
}

func (c *Composer) searchCustomersLocked() {
	if c.customerName == "" || c.customerConfirmed {
		c.customerSearch.Cancel()
		c.customers = nil

		return
	}

	filter := customer.QueryCustomersModel{
		Name:   c.customerName,
		Branch: c.branch,
		Limit:  c.cfg.CustomerLimit,
	}
	c.customerSearch.Schedule(c.cfg.DebounceDelay, func(ctx context.Context, seq uint64) {
		found, err := c.directory.SearchCustomers(ctx, filter)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Customer search failed", "name", filter.Name, "branch", filter.Branch, "error", err)
			found = nil
		}
		if len(found) > c.cfg.CustomerLimit {
			found = found[:c.cfg.CustomerLimit]
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.customerSearch.Current(seq) {
			c.customers = found
		}
	})
}

// SelectCustomer copies a directory match into the order and confirms it.
func (c *Composer) SelectCustomer(match customer.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectCustomerLocked(match)
}

// SelectCustomerByID selects one of the current customer suggestions.
func (c *Composer) SelectCustomerByID(id string) (customer.Customer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.customers, func(m customer.Customer) bool { return m.ID == id })
	if idx < 0 {
		return customer.Customer{}, ErrSuggestionNotFound
	}
	match := c.customers[idx]
	c.selectCustomerLocked(match)

	return match, nil
}

func (c *Composer) selectCustomerLocked(match customer.Customer) {
	c.customerSearch.Cancel()

	c.customerName = match.Name
	c.customerEmail = match.Email
	c.customerContact = match.Phone
	c.billingAddress = match.Address
	c.deliveryAddress = ""
	c.accountStatus = match.Status()
	c.customerConfirmed = true
	c.customers = nil
}

// SetCategory chooses the category of the item being entered and
// searches its products right away.
func (c *Composer) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCategoryLocked(category)
	c.searchProductsLocked(0)
}

// setCategoryLocked switches the draft category. The chosen product and
// its width belong to the old category and are dropped on a change.
func (c *Composer) setCategoryLocked(category string) bool {
	if category == c.draft.Category {
		return false
	}
	c.draft.Category = category
	c.draft.ItemName = ""
	c.draft.Width = ""

	return true
}

// SetItemSearch records the item search text. Non-empty text is searched
// after the debounce delay, clearing it searches immediately.
func (c *Composer) SetItemSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.ItemSearch = text
	c.searchProductsLocked(c.itemSearchDelay())
}

// SearchProducts updates category and search text together. A category
// change searches immediately, a text change is debounced.
func (c *Composer) SearchProducts(category, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.setCategoryLocked(category)
	c.draft.ItemSearch = text

	delay := c.itemSearchDelay()
	if changed {
		delay = 0
	}
	c.searchProductsLocked(delay)
}

func (c *Composer) itemSearchDelay() time.Duration {
	if c.draft.ItemSearch == "" {
		return 0
	}

	return c.cfg.DebounceDelay
}

func (c *Composer) searchProductsLocked(delay time.Duration) {
	label := c.draft.Category
	if label == "" {
		c.productSearch.Cancel()
		c.products = nil

		return
	}

	filter := product.QueryProductsModel{
		Label: label,
		Code:  c.catalog.CategoryCode(label),
		Name:  c.draft.ItemSearch,
		Limit: c.cfg.ProductLimit,
	}
	c.productSearch.Schedule(delay, func(ctx context.Context, seq uint64) {
		found, err := c.directory.SearchProducts(ctx, filter)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Product search failed", "category", filter.Label, "name", filter.Name, "error", err)
			found = nil
		}
		if len(found) > c.cfg.ProductLimit {
			found = found[:c.cfg.ProductLimit]
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.productSearch.Current(seq) {
			c.products = found
		}
	})
}

// SelectProduct fills the item name, UOM and category width from a match.
func (c *Composer) SelectProduct(match product.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectProductLocked(match)
}

// SelectProductByID selects one of the current product suggestions.
func (c *Composer) SelectProductByID(id string) (product.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.products, func(p product.Product) bool { return p.ID == id })
	if idx < 0 {
		return product.Product{}, ErrSuggestionNotFound
	}
	match := c.products[idx]
	c.selectProductLocked(match)

	return match, nil
}

func (c *Composer) selectProductLocked(match product.Product) {
	c.productSearch.Cancel()

	c.draft.ItemName = match.Name
	c.draft.ItemSearch = match.Name
	c.draft.Width = match.Width(c.catalog.CategoryCode(c.draft.Category))
	if match.UOM != "" {
		c.draft.UOM = match.UOM
	}
	c.products = nil
}

// AddItem validates the draft and appends it as a new item. On failure the
// draft is kept as entered and nothing is appended.
func (c *Composer) AddItem(current orderitem.Draft) (orderitem.OrderItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = current
	item, err := current.Build(c.newID())
	if err != nil {
		return orderitem.OrderItem{}, err
	}

	c.items = append(c.items, item)
	c.draft = current.Next(c.today())
	c.searchProductsLocked(0)

	return item, nil
}

// RemoveItem deletes the item with the given id. It reports whether an item was removed.
func (c *Composer) RemoveItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item orderitem.OrderItem) bool { return item.ID == id })

	return len(c.items) != before
}

// GrossTotal sums the totals of the current items.
func (c *Composer) GrossTotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return order.GrossTotal(c.items)
}

// Submit sends the order to the submission endpoint. Only after the
// endpoint accepted it is the order written to history and the form
// cleared; branch, salesperson and the item draft stay for the next order.
// On failure the form is left untouched so the call can be repeated.
func (c *Composer) Submit(ctx context.Context) (order.Order, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()

		return order.Order{}, ErrSubmitInProgress
	}
	if err := c.validateSubmitLocked(); err != nil {
		c.mu.Unlock()

		return order.Order{}, err
	}
	o := c.snapshotLocked()
	c.submitting = true
	c.mu.Unlock()

	err := c.submitter.Submit(ctx, o)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.mu.Unlock()
		slog.ErrorContext(ctx, "Order submission failed", "order_id", o.ID, "error", err)

		return order.Order{}, fmt.Errorf("failed to submit order %s: %w", o.ID, err)
	}
	c.resetAfterSubmitLocked(o)
	c.mu.Unlock()

	// The endpoint has the order, so it is recorded even if the caller went away.
	recordCtx := context.WithoutCancel(ctx)
	if err := c.history.Prepend(recordCtx, o); err != nil {
		slog.ErrorContext(ctx, "Failed to write order to history", "order_id", o.ID, "error", err)
	}
	if c.auditor != nil {
		if err := c.auditor.LogSubmitted(recordCtx, o); err != nil {
			slog.ErrorContext(ctx, "Failed to audit order submission", "order_id", o.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Order submitted",
		"order_id", o.ID,
		"branch", o.Branch,
		"items", len(o.Items),
	)

	return o, nil
}

func (c *Composer) validateSubmitLocked() error {
	const msg = "please complete all mandatory fields"

	switch {
	case strings.TrimSpace(c.customerName) == "":
		return validation.NewFieldError(string(FieldCustomerName), msg)
	case c.branch == "":
		return validation.NewFieldError(string(FieldBranch), msg)
	case c.salesPerson == "":
		return validation.NewFieldError(string(FieldSalesPerson), msg)
	case len(c.items) == 0:
		return validation.NewFieldError(string(FieldItems), "add at least one item")
	}

	return nil
}

func (c *Composer) snapshotLocked() order.Order {
	now := c.now().In(c.cfg.Location)

	return order.Order{
		ID:           order.NewID(c.cfg.OrderPrefix, now),
		OrderDate:    now.Format(order.DateLayout),
		Branch:       c.branch,
		SalesPerson:  c.salesPerson,
		CustomerPONo: c.customerPONo,
		Customer: &order.CustomerSnapshot{
			Name:      c.customerName,
			Email:     c.customerEmail,
			ContactNo: c.customerContact,
			Address:   c.billingAddress,
		},
		BillingAddress:  c.billingAddress,
		DeliveryAddress: c.deliveryAddress,
		AccountStatus:   c.accountStatus,
		Items:           slices.Clone(c.items),
		Timestamp:       now.UnixMilli(),
	}
}

// resetAfterSubmitLocked clears what was sent. Items added and fields
// edited while the submission was running belong to the next order and stay.
func (c *Composer) resetAfterSubmitLocked(sent order.Order) {
	sentIDs := make(map[string]struct{}, len(sent.Items))
	for _, item := range sent.Items {
		sentIDs[item.ID] = struct{}{}
	}
	c.items = slices.DeleteFunc(c.items, func(item orderitem.OrderItem) bool {
		_, ok := sentIDs[item.ID]

		return ok
	})
	if len(c.items) == 0 {
		c.items = nil
	}

	if c.customerPONo == sent.CustomerPONo {
		c.customerPONo = ""
	}
	if !c.customerEditedSince(sent) {
		c.customerSearch.Cancel()

		c.customerName = ""
		c.customerEmail = ""
		c.customerContact = ""
		c.billingAddress = ""
		c.deliveryAddress = ""
		c.accountStatus = ""
		c.customerConfirmed = false
		c.customers = nil
	}
}

func (c *Composer) customerEditedSince(sent order.Order) bool {
	return c.customerName != sent.CustomerName() ||
		c.customerEmail != sent.Customer.Email ||
		c.customerContact != sent.Customer.ContactNo ||
		c.billingAddress != sent.BillingAddress ||
		c.deliveryAddress != sent.DeliveryAddress ||
		c.accountStatus != sent.AccountStatus
}

// State is a copy of everything the order form shows.
type State struct {
	Branch            string                `json:"branch"`
	SalesPerson       string                `json:"salesPerson"`
	CustomerPONo      string                `json:"customerPONo"`
	CustomerName      string                `json:"customerName"`
	CustomerEmail     string                `json:"customerEmail"`
	CustomerContact   string                `json:"customerContact"`
	BillingAddress    string                `json:"billingAddress"`
	DeliveryAddress   string                `json:"deliveryAddress"`
	AccountStatus     string                `json:"accountStatus"`
	CustomerConfirmed bool                  `json:"customerConfirmed"`
	CustomerMatches   []customer.Customer   `json:"customerMatches"`
	Draft             orderitem.Draft       `json:"draft"`
	ProductMatches    []product.Product     `json:"productMatches"`
	Items             []orderitem.OrderItem `json:"items"`
	GrossTotal        float64               `json:"grossTotal"`
	Submitting        bool                  `json:"submitting"`
}

// State returns a snapshot of the composer.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Branch:            c.branch,
		SalesPerson:       c.salesPerson,
		CustomerPONo:      c.customerPONo,
		CustomerName:      c.customerName,
		CustomerEmail:     c.customerEmail,
		CustomerContact:   c.customerContact,
		BillingAddress:    c.billingAddress,
		DeliveryAddress:   c.deliveryAddress,
		AccountStatus:     c.accountStatus,
		CustomerConfirmed: c.customerConfirmed,
		CustomerMatches:   slices.Clone(c.customers),
		Draft:             c.draft,
		ProductMatches:    slices.Clone(c.products),
		Items:             slices.Clone(c.items),
		GrossTotal:        order.GrossTotal(c.items),
		Submitting:        c.submitting,
	}
}
