package orderform

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/portal/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/portal/internal/service/models/validation"
	"github.com/corray333/backend-labs/portal/internal/service/services/composersvc"
	"github.com/corray333/backend-labs/portal/internal/service/services/desksvc"
	"github.com/corray333/backend-labs/portal/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the desk registry.
type service interface {
	Get(id string) (*desksvc.Desk, error)
}

func composerOf(w http.ResponseWriter, r *http.Request, service service) (*composersvc.Composer, bool) {
	desk, err := service.Get(chi.URLParam(r, "deskID"))
	if err != nil {
		respond.Error(w, r, err)

		return nil, false
	}

	return desk.Composer, true
}

func writeState(w http.ResponseWriter, r *http.Request, c *composersvc.Composer) {
	respond.JSON(w, r, http.StatusOK, c.State())
}

type setFieldRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type setHeaderRequest struct {
	Field string `json:"field" validate:"required,oneof=branch salesPerson customerPONo"`
	Value string `json:"value"`
}

// SetHeader updates branch, salesperson or customer PO number.
func SetHeader(w http.ResponseWriter, r *http.Request, service service) {
	req := setHeaderRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	if err := c.SetHeader(composersvc.Field(req.Field), req.Value); err != nil {
		respond.Error(w, r, err)

		return
	}

	writeState(w, r, c)
}

// SetCustomer edits a customer field. Editing the name starts a search.
func SetCustomer(w http.ResponseWriter, r *http.Request, service service) {
	req := setFieldRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	if err := c.SetCustomerDetail(composersvc.Field(req.Field), req.Value); err != nil {
		respond.Error(w, r, err)

		return
	}

	writeState(w, r, c)
}

type selectRequest struct {
	ID string `json:"id" validate:"required"`
}

// SelectCustomer picks one of the current customer suggestions.
func SelectCustomer(w http.ResponseWriter, r *http.Request, service service) {
	req := selectRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	if _, err := c.SelectCustomerByID(req.ID); err != nil {
		respond.Error(w, r, err)

		return
	}

	writeState(w, r, c)
}

type setCategoryRequest struct {
	Category string `json:"category"`
}

// SetCategory chooses the category of the item being entered.
func SetCategory(w http.ResponseWriter, r *http.Request, service service) {
	req := setCategoryRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	c.SetCategory(req.Category)
	writeState(w, r, c)
}

type setItemSearchRequest struct {
	Text string `json:"text"`
}

// SetItemSearch records the product search text.
func SetItemSearch(w http.ResponseWriter, r *http.Request, service service) {
	req := setItemSearchRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	c.SetItemSearch(req.Text)
	writeState(w, r, c)
}

// SelectProduct picks one of the current product suggestions.
func SelectProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := selectRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	if _, err := c.SelectProductByID(req.ID); err != nil {
		respond.Error(w, r, err)

		return
	}

	writeState(w, r, c)
}

// amount accepts a JSON number or string and keeps the text as typed.
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*a = ""

		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amount(s)

		return nil
	}
	*a = amount(data)

	return nil
}

type addItemRequest struct {
	Category      string `json:"category"`
	ItemName      string `json:"itemName"`
	ItemSearch    string `json:"itemSearch"`
	ManualItem    bool   `json:"manualItem"`
	Color         string `json:"color"`
	Width         string `json:"width"`
	UOM           string `json:"uom"`
	Quantity      amount `json:"quantity"`
	Rate          amount `json:"rate"`
	Discount      amount `json:"discount"`
	DeliveryDate  string `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
	TransportName string `json:"transportName"`
	Remark        string `json:"remark"`
}

func (r *addItemRequest) toModel() orderitem.Draft {
	return orderitem.Draft{
		Category:      r.Category,
		ItemName:      r.ItemName,
		ItemSearch:    r.ItemSearch,
		ManualItem:    r.ManualItem,
		Color:         r.Color,
		Width:         r.Width,
		UOM:           r.UOM,
		Quantity:      string(r.Quantity),
		Rate:          string(r.Rate),
		Discount:      string(r.Discount),
		DeliveryDate:  r.DeliveryDate,
		TransportName: r.TransportName,
		Remark:        r.Remark,
	}
}

type addItemResponse struct {
	Item  orderitem.OrderItem `json:"item"`
	State composersvc.State   `json:"state"`
}

// AddItem validates the item form and appends it to the order.
func AddItem(w http.ResponseWriter, r *http.Request, service service) {
	req := addItemRequest{}
	if err := respond.DecodeJSON(r, &req, false); err != nil {
		respond.BadRequest(w, r, err)

		return
	}
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	item, err := c.AddItem(req.toModel())
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, addItemResponse{Item: item, State: c.State()})
}

// RemoveItem deletes an item. Removing an absent item is not an error.
func RemoveItem(w http.ResponseWriter, r *http.Request, service service) {
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	c.RemoveItem(chi.URLParam(r, "itemID"))
	writeState(w, r, c)
}

// Submit sends the order to the submission endpoint.
func Submit(w http.ResponseWriter, r *http.Request, service service) {
	c, ok := composerOf(w, r, service)
	if !ok {
		return
	}

	o, err := c.Submit(r.Context())
	if err != nil {
		if errors.Is(err, validation.ErrValidation) || errors.Is(err, composersvc.ErrSubmitInProgress) {
			respond.Error(w, r, err)

			return
		}
		slog.ErrorContext(r.Context(), "Error submitting order", "error", err)
		respond.BadGateway(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, o)
}
