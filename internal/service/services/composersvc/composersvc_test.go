package composersvc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corray333/backend-labs/portal/internal/dal/repositories/history/memory"
	"github.com/corray333/backend-labs/portal/internal/service/models/customer"
	"github.com/corray333/backend-labs/portal/internal/service/models/order"
	"github.com/corray333/backend-labs/portal/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/portal/internal/service/models/product"
	"github.com/corray333/backend-labs/portal/internal/service/models/validation"
	"github.com/corray333/backend-labs/portal/internal/service/services/historysvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 20 * time.Millisecond

type fakeDirectory struct {
	mu            sync.Mutex
	customerCalls []customer.QueryCustomersModel
	productCalls  []product.QueryProductsModel
	customers     func(customer.QueryCustomersModel) ([]customer.Customer, error)
	products      func(product.QueryProductsModel) ([]product.Product, error)
}

func (d *fakeDirectory) SearchCustomers(
	_ context.Context,
	filter customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	d.mu.Lock()
	d.customerCalls = append(d.customerCalls, filter)
	fn := d.customers
	d.mu.Unlock()

	if fn == nil {
		return nil, nil
	}

	return fn(filter)
}

func (d *fakeDirectory) SearchProducts(
	_ context.Context,
	filter product.QueryProductsModel,
) ([]product.Product, error) {
	d.mu.Lock()
	d.productCalls = append(d.productCalls, filter)
	fn := d.products
	d.mu.Unlock()

	if fn == nil {
		return nil, nil
	}

	return fn(filter)
}

func (d *fakeDirectory) customerCallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.customerCalls)
}

func (d *fakeDirectory) productCallsSnapshot() []product.QueryProductsModel {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]product.QueryProductsModel(nil), d.productCalls...)
}

type fakeSubmitter struct {
	mu      sync.Mutex
	err     error
	block   chan struct{}
	started chan struct{}
	cancel  context.CancelFunc
	orders  []order.Order
}

func (s *fakeSubmitter) Submit(_ context.Context, o order.Order) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)

	return s.err
}

type fakeHistory struct {
	mu     sync.Mutex
	err    error
	orders []order.Order
}

func (h *fakeHistory) Prepend(ctx context.Context, o order.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	h.orders = append([]order.Order{o}, h.orders...)

	return nil
}

type fakeAuditor struct {
	orders []order.Order
}

func (a *fakeAuditor) LogSubmitted(ctx context.Context, orders ...order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.orders = append(a.orders, orders...)

	return nil
}

var testNow = time.Date(2026, 10, 17, 10, 30, 0, 0, time.UTC)

func newTestComposer(t *testing.T, opts ...option) (*Composer, *fakeDirectory, *fakeSubmitter, *fakeHistory) {
	t.Helper()

	dir := &fakeDirectory{}
	sub := &fakeSubmitter{}
	hist := &fakeHistory{}

	var ids atomic.Int64
	cfg := DefaultConfig()
	cfg.DebounceDelay = testDelay
	cfg.Location = time.UTC

	base := []option{
		WithDirectory(dir),
		WithSubmitter(sub),
		WithHistory(hist),
		WithConfig(cfg),
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return fmt.Sprintf("item-%d", ids.Add(1)) }),
	}
	c := MustNewComposer(append(base, opts...)...)
	t.Cleanup(c.Close)

	return c, dir, sub, hist
}

func validDraft() orderitem.Draft {
	return orderitem.Draft{
		Category:     "CKU",
		ItemName:     "Tape 25mm",
		UOM:          "ROLL",
		Quantity:     "10",
		Rate:         "100",
		Discount:     "10",
		DeliveryDate: "2026-10-20",
	}
}

func fillOrder(t *testing.T, c *Composer) {
	t.Helper()

	require.NoError(t, c.SetHeader(FieldBranch, "Mumbai"))
	require.NoError(t, c.SetHeader(FieldSalesPerson, "Rakesh Jain"))
	require.NoError(t, c.SetHeader(FieldCustomerPONo, "PO-77"))
	c.SelectCustomer(customer.Customer{
		ID:      "c1",
		Name:    "Acme Textiles",
		Email:   "buy@acme.test",
		Phone:   "98200",
		Address: "12 Mill Road",
	})
	_, err := c.AddItem(validDraft())
	require.NoError(t, err)
}

func TestMustNewComposerRequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { MustNewComposer() })
}

func TestSetHeaderBranchChangeResetsSalesPersonAndCustomer(t *testing.T) {
	c, _, _, _ := newTestComposer(t)

	require.NoError(t, c.SetHeader(FieldBranch, "Mumbai"))
	require.NoError(t, c.SetHeader(FieldSalesPerson, "Rakesh Jain"))
	c.SelectCustomer(customer.Customer{ID: "c1", Name: "Acme"})
	require.True(t, c.State().CustomerConfirmed)

	require.NoError(t, c.SetHeader(FieldBranch, "Delhi"))

	state := c.State()
	assert.Equal(t, "Delhi", state.Branch)
	assert.Empty(t, state.SalesPerson)
	assert.False(t, state.CustomerConfirmed)
	assert.Equal(t, "Acme", state.CustomerName)
}

func TestSetHeaderValidatesAgainstCatalog(t *testing.T) {
	c, _, _, _ := newTestComposer(t)

	err := c.SetHeader(FieldBranch, "Atlantis")
	var fieldErr *validation.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "branch", fieldErr.Field)

	require.NoError(t, c.SetHeader(FieldBranch, "Mumbai"))
	err = c.SetHeader(FieldSalesPerson, "Lalit Maroo")
	require.ErrorIs(t, err, validation.ErrValidation)

	err = c.SetHeader(Field("nope"), "x")
	require.ErrorIs(t, err, validation.ErrValidation)
}

func TestSearchCustomersDebouncesKeystrokes(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)
	require.NoError(t, c.SetHeader(FieldBranch, "Mumbai"))
	dir.customers = func(f customer.QueryCustomersModel) ([]customer.Customer, error) {
		return []customer.Customer{{ID: "c1", Name: "Acme " + f.Name}}, nil
	}

	for _, text := range []string{"a", "ac", "acm", "acme", "acme "} {
		c.SearchCustomers(text)
	}

	require.Eventually(t, func() bool {
		return len(c.State().CustomerMatches) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)

	require.Equal(t, 1, dir.customerCallCount())
	dir.mu.Lock()
	call := dir.customerCalls[0]
	dir.mu.Unlock()
	assert.Equal(t, "acme ", call.Name)
	assert.Equal(t, "Mumbai", call.Branch)
	assert.Equal(t, 10, call.Limit)
}

func TestSearchCustomersIgnoresStaleResponse(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)

	firstStarted := make(chan struct{})
	var once sync.Once
	dir.customers = func(f customer.QueryCustomersModel) ([]customer.Customer, error) {
		if f.Name == "ab" {
			once.Do(func() { close(firstStarted) })
			time.Sleep(100 * time.Millisecond)

			return []customer.Customer{{ID: "stale", Name: "Stale"}}, nil
		}

		return []customer.Customer{{ID: "fresh", Name: "Fresh"}}, nil
	}

	c.SearchCustomers("ab")
	<-firstStarted
	c.SearchCustomers("abc")

	require.Eventually(t, func() bool {
		matches := c.State().CustomerMatches
		return len(matches) == 1 && matches[0].ID == "fresh"
	}, time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	matches := c.State().CustomerMatches
	require.Len(t, matches, 1)
	assert.Equal(t, "fresh", matches[0].ID)
}

func TestSearchCustomersFailureYieldsNoSuggestions(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)
	dir.customers = func(customer.QueryCustomersModel) ([]customer.Customer, error) {
		return nil, errors.New("directory down")
	}

	c.SearchCustomers("acme")

	require.Eventually(t, func() bool {
		return dir.customerCallCount() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(testDelay)
	assert.Empty(t, c.State().CustomerMatches)
}

func TestSearchCustomersEmptyTextClearsWithoutLookup(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)

	c.SearchCustomers("acme")
	c.SearchCustomers("")

	time.Sleep(3 * testDelay)
	assert.Zero(t, dir.customerCallCount())
	assert.Empty(t, c.State().CustomerMatches)
}

func TestSelectCustomerByID(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)
	dir.customers = func(customer.QueryCustomersModel) ([]customer.Customer, error) {
		return []customer.Customer{
			{ID: "c1", Name: "Acme", Email: "a@acme.test", Phone: "1", Address: "Road 1"},
			{ID: "c2", Name: "Acme Two"},
		}, nil
	}
	require.NoError(t, c.SetCustomerDetail(FieldDeliveryAddress, "old"))

	c.SearchCustomers("acm")
	require.Eventually(t, func() bool {
		return len(c.State().CustomerMatches) == 2
	}, time.Second, 5*time.Millisecond)

	_, err := c.SelectCustomerByID("missing")
	require.ErrorIs(t, err, ErrSuggestionNotFound)

	match, err := c.SelectCustomerByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", match.Name)

	state := c.State()
	assert.Equal(t, "Acme", state.CustomerName)
	assert.Equal(t, "a@acme.test", state.CustomerEmail)
	assert.Equal(t, "1", state.CustomerContact)
	assert.Equal(t, "Road 1", state.BillingAddress)
	assert.Empty(t, state.DeliveryAddress)
	assert.Equal(t, customer.DefaultAccountStatus, state.AccountStatus)
	assert.True(t, state.CustomerConfirmed)
	assert.Empty(t, state.CustomerMatches)

	// editing the name again drops the confirmation
	c.SearchCustomers("Acme Ltd")
	assert.False(t, c.State().CustomerConfirmed)
}

func TestSearchProductsTiming(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DebounceDelay = 300 * time.Millisecond
	cfg.Location = time.UTC
	c, dir, _, _ := newTestComposer(t, WithConfig(cfg))
	dir.products = func(f product.QueryProductsModel) ([]product.Product, error) {
		return []product.Product{{ID: "p1", Name: "Tape " + f.Name}}, nil
	}

	c.SetCategory("WARP(UDHANA)")
	require.Eventually(t, func() bool {
		return len(dir.productCallsSnapshot()) == 1
	}, 150*time.Millisecond, time.Millisecond, "category change searches immediately")

	call := dir.productCallsSnapshot()[0]
	assert.Equal(t, "WARP(UDHANA)", call.Label)
	assert.Equal(t, "warp", call.Code)
	assert.Empty(t, call.Name)
	assert.Equal(t, 50, call.Limit)

	for _, text := range []string{"t", "ta", "tap"} {
		c.SetItemSearch(text)
	}
	require.Never(t, func() bool {
		return len(dir.productCallsSnapshot()) > 1
	}, 150*time.Millisecond, 5*time.Millisecond, "typing is debounced")
	require.Eventually(t, func() bool {
		return len(dir.productCallsSnapshot()) == 2
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(350 * time.Millisecond)

	calls := dir.productCallsSnapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "tap", calls[1].Name)

	c.SearchProducts("CKU", "tape")
	require.Eventually(t, func() bool {
		return len(dir.productCallsSnapshot()) == 3
	}, 150*time.Millisecond, time.Millisecond, "category change wins over debounce")
	assert.Equal(t, "cku", dir.productCallsSnapshot()[2].Code)
}

func TestSelectProductFillsWidthAndUOM(t *testing.T) {
	c, dir, _, _ := newTestComposer(t)
	dir.products = func(product.QueryProductsModel) ([]product.Product, error) {
		return []product.Product{
			{
				ID:         "p1",
				Name:       "Hook 10",
				UOM:        "PKT",
				Attributes: map[string]string{"width-eye_n_hook": " 12mm ", "width": "99"},
			},
			{ID: "p2", Name: "Hook 11"},
		}, nil
	}

	c.SetCategory("EYE_N_HOOK")
	require.Eventually(t, func() bool {
		return len(c.State().ProductMatches) == 2
	}, time.Second, 5*time.Millisecond)

	_, err := c.SelectProductByID("p9")
	require.ErrorIs(t, err, ErrSuggestionNotFound)

	_, err = c.SelectProductByID("p1")
	require.NoError(t, err)

	draft := c.State().Draft
	assert.Equal(t, "Hook 10", draft.ItemName)
	assert.Equal(t, "Hook 10", draft.ItemSearch)
	assert.Equal(t, "12mm", draft.Width)
	assert.Equal(t, "PKT", draft.UOM)
	assert.Empty(t, c.State().ProductMatches)

	c.SelectProduct(product.Product{ID: "p2", Name: "Hook 11"})
	draft = c.State().Draft
	assert.Equal(t, "PKT", draft.UOM, "a product without UOM keeps the current one")
	assert.Empty(t, draft.Width)
}

func TestAddItemValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*orderitem.Draft)
		wantField string
	}{
		{name: "noCategory", mutate: func(d *orderitem.Draft) { d.Category = "" }, wantField: orderitem.FieldCategory},
		{name: "noName", mutate: func(d *orderitem.Draft) { d.ItemName = "" }, wantField: orderitem.FieldItemName},
		{
			name:      "manualWithoutText",
			mutate:    func(d *orderitem.Draft) { d.ManualItem = true; d.ItemSearch = "  " },
			wantField: orderitem.FieldItemName,
		},
		{name: "noUOM", mutate: func(d *orderitem.Draft) { d.UOM = "" }, wantField: orderitem.FieldUOM},
		{name: "noQuantity", mutate: func(d *orderitem.Draft) { d.Quantity = "" }, wantField: orderitem.FieldQuantity},
		{name: "zeroQuantity", mutate: func(d *orderitem.Draft) { d.Quantity = "0" }, wantField: orderitem.FieldQuantity},
		{name: "noRate", mutate: func(d *orderitem.Draft) { d.Rate = "abc" }, wantField: orderitem.FieldRate},
		{name: "discountAbove100", mutate: func(d *orderitem.Draft) { d.Discount = "120" }, wantField: orderitem.FieldDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, _ := newTestComposer(t)
			draft := validDraft()
			tt.mutate(&draft)

			_, err := c.AddItem(draft)

			var fieldErr *validation.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)

			state := c.State()
			assert.Empty(t, state.Items)
			assert.Equal(t, draft, state.Draft, "failed draft is kept as entered")
		})
	}
}

func TestAddItemAppendsAndResetsDraft(t *testing.T) {
	c, _, _, _ := newTestComposer(t)

	item, err := c.AddItem(validDraft())
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.InDelta(t, 900.0, item.Total, 1e-9)

	manual := validDraft()
	manual.ManualItem = true
	manual.ItemName = ""
	manual.ItemSearch = "Custom lace"
	manual.Discount = ""
	item, err = c.AddItem(manual)
	require.NoError(t, err)
	assert.Equal(t, "Custom lace", item.ItemName)
	assert.InDelta(t, 1000.0, item.Total, 1e-9)

	state := c.State()
	require.Len(t, state.Items, 2)
	assert.InDelta(t, 1900.0, state.GrossTotal, 1e-9)
	assert.Equal(t, orderitem.Draft{Category: "CKU", DeliveryDate: "2026-10-20"}, state.Draft)
}

func TestRemoveItem(t *testing.T) {
	c, _, _, _ := newTestComposer(t)

	first, err := c.AddItem(validDraft())
	require.NoError(t, err)
	second, err := c.AddItem(validDraft())
	require.NoError(t, err)

	assert.False(t, c.RemoveItem("absent"))
	require.Len(t, c.State().Items, 2)

	assert.True(t, c.RemoveItem(first.ID))
	items := c.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)
	assert.InDelta(t, 900.0, c.GrossTotal(), 1e-9)
}

func TestSubmitValidationOrder(t *testing.T) {
	c, _, sub, _ := newTestComposer(t)

	assertField := func(want string) {
		t.Helper()
		_, err := c.Submit(context.Background())
		var fieldErr *validation.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, want, fieldErr.Field)
	}

	assertField("customerName")
	c.SearchCustomers("Acme")
	assertField("branch")
	require.NoError(t, c.SetHeader(FieldBranch, "Mumbai"))
	assertField("salesPerson")
	require.NoError(t, c.SetHeader(FieldSalesPerson, "Rakesh Jain"))
	assertField("items")

	assert.Empty(t, sub.orders, "nothing is sent while invalid")
}

func TestSubmitFailureKeepsState(t *testing.T) {
	c, _, sub, hist := newTestComposer(t)
	fillOrder(t, c)
	sub.err = errors.New("network unreachable")
	before := c.State()

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sub.err)

	assert.Equal(t, before, c.State())
	assert.Empty(t, hist.orders)
}

func TestSubmitSuccess(t *testing.T) {
	audit := &fakeAuditor{}
	c, _, sub, hist := newTestComposer(t, WithAuditor(audit))
	fillOrder(t, c)
	require.NoError(t, c.SetCustomerDetail(FieldDeliveryAddress, "Dock 4"))
	draftBefore := c.State().Draft

	o, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, order.NewID("GINZA", testNow), o.ID)
	assert.Regexp(t, `^GINZA-\d{6}$`, o.ID)
	assert.Equal(t, "17/10/2026", o.OrderDate)
	assert.Equal(t, testNow.UnixMilli(), o.Timestamp)
	assert.Equal(t, "Mumbai", o.Branch)
	assert.Equal(t, "Rakesh Jain", o.SalesPerson)
	assert.Equal(t, "PO-77", o.CustomerPONo)
	require.NotNil(t, o.Customer)
	assert.Equal(t, "Acme Textiles", o.Customer.Name)
	assert.Equal(t, "12 Mill Road", o.Customer.Address)
	assert.Equal(t, "12 Mill Road", o.BillingAddress)
	assert.Equal(t, "Dock 4", o.DeliveryAddress)
	assert.Equal(t, "Active", o.AccountStatus)
	require.Len(t, o.Items, 1)

	require.Len(t, sub.orders, 1)
	assert.Equal(t, o, sub.orders[0])
	require.Len(t, hist.orders, 1)
	assert.Equal(t, o, hist.orders[0])
	assert.Equal(t, []order.Order{o}, audit.orders)

	state := c.State()
	assert.Equal(t, "Mumbai", state.Branch)
	assert.Equal(t, "Rakesh Jain", state.SalesPerson)
	assert.Equal(t, draftBefore, state.Draft)
	assert.Empty(t, state.CustomerPONo)
	assert.Empty(t, state.CustomerName)
	assert.Empty(t, state.CustomerEmail)
	assert.Empty(t, state.CustomerContact)
	assert.Empty(t, state.BillingAddress)
	assert.Empty(t, state.DeliveryAddress)
	assert.Empty(t, state.AccountStatus)
	assert.False(t, state.CustomerConfirmed)
	assert.Empty(t, state.Items)
}

func TestSubmitHistoryFailureStillClears(t *testing.T) {
	c, _, _, hist := newTestComposer(t)
	hist.err = errors.New("quota exceeded")
	fillOrder(t, c)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c.State().Items)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	c, _, sub, _ := newTestComposer(t)
	fillOrder(t, c)
	sub.block = make(chan struct{})
	sub.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-sub.started

	assert.True(t, c.State().Submitting)
	_, err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(sub.block)
	require.NoError(t, <-done)
	assert.False(t, c.State().Submitting)
	assert.Len(t, sub.orders, 1)
}

func TestSubmitRecordsOrderWhenCallerGoesAway(t *testing.T) {
	audit := &fakeAuditor{}
	c, _, sub, hist := newTestComposer(t, WithAuditor(audit))
	fillOrder(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub.cancel = cancel

	o, err := c.Submit(ctx)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	assert.Empty(t, c.State().Items)
	require.Len(t, hist.orders, 1)
	assert.Equal(t, o, hist.orders[0])
	assert.Equal(t, []order.Order{o}, audit.orders)
}

func TestSubmitRoundTripsThroughHistoryStore(t *testing.T) {
	store := historysvc.NewStoreWithKey(memory.NewHistoryRepository(), "composer_test")
	c, _, _, _ := newTestComposer(t, WithHistory(store))
	fillOrder(t, c)
	require.NoError(t, c.SetCustomerDetail(FieldDeliveryAddress, "Dock 4"))
	detailed := validDraft()
	detailed.Color = "Navy"
	detailed.Width = "25mm"
	detailed.TransportName = "VRL"
	detailed.Remark = "urgent"
	_, err := c.AddItem(detailed)
	require.NoError(t, err)

	o, err := c.Submit(context.Background())
	require.NoError(t, err)

	stored, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, o, stored[0])
}

func TestSetCategoryDropsProductOfPreviousCategory(t *testing.T) {
	c, _, _, _ := newTestComposer(t)

	c.SetCategory("CKU")
	c.SelectProduct(product.Product{
		ID:         "p1",
		Name:       "Tape 25mm",
		UOM:        "ROLL",
		Attributes: map[string]string{"width_cku": "25mm"},
	})
	draft := c.State().Draft
	require.Equal(t, "Tape 25mm", draft.ItemName)
	require.Equal(t, "25mm", draft.Width)

	c.SetCategory("CKU")
	draft = c.State().Draft
	assert.Equal(t, "Tape 25mm", draft.ItemName, "same category keeps the product")
	assert.Equal(t, "25mm", draft.Width)

	c.SetCategory("VAU")
	draft = c.State().Draft
	assert.Equal(t, "VAU", draft.Category)
	assert.Empty(t, draft.ItemName)
	assert.Empty(t, draft.Width)
	assert.Equal(t, "ROLL", draft.UOM)

	c.SelectProduct(product.Product{ID: "p2", Name: "Velcro", Attributes: map[string]string{"width_vau": "20mm"}})
	c.SearchProducts("CKU", "tape")
	draft = c.State().Draft
	assert.Equal(t, "CKU", draft.Category)
	assert.Equal(t, "tape", draft.ItemSearch)
	assert.Empty(t, draft.ItemName)
	assert.Empty(t, draft.Width)

	_, err := c.AddItem(draft)
	var fieldErr *validation.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, orderitem.FieldItemName, fieldErr.Field)
}

func TestSubmitKeepsEditsMadeWhileSending(t *testing.T) {
	c, _, sub, hist := newTestComposer(t)
	fillOrder(t, c)
	sub.block = make(chan struct{})
	sub.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-sub.started

	late, err := c.AddItem(validDraft())
	require.NoError(t, err)
	require.NoError(t, c.SetHeader(FieldCustomerPONo, "PO-78"))

	close(sub.block)
	require.NoError(t, <-done)

	require.Len(t, hist.orders, 1)
	require.Len(t, hist.orders[0].Items, 1)
	assert.NotEqual(t, late.ID, hist.orders[0].Items[0].ID)

	state := c.State()
	require.Len(t, state.Items, 1)
	assert.Equal(t, late.ID, state.Items[0].ID)
	assert.Equal(t, "PO-78", state.CustomerPONo)
	assert.Empty(t, state.CustomerName, "unchanged customer is cleared")
}

func TestSubmitKeepsCustomerPickedWhileSending(t *testing.T) {
	c, _, sub, _ := newTestComposer(t)
	fillOrder(t, c)
	sub.block = make(chan struct{})
	sub.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-sub.started

	c.SelectCustomer(customer.Customer{ID: "c2", Name: "Bharat Laces", Email: "bl@test"})

	close(sub.block)
	require.NoError(t, <-done)

	state := c.State()
	assert.Equal(t, "Bharat Laces", state.CustomerName)
	assert.Equal(t, "bl@test", state.CustomerEmail)
	assert.True(t, state.CustomerConfirmed)
	assert.Empty(t, state.CustomerPONo)
}
