package orderitem

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/corray333/backend-labs/portal/internal/service/models/validation"
)

// DateLayout is the layout of delivery dates.
const DateLayout = "2006-01-02"

// Field names reported by validation errors.
const (
	FieldCategory = "category"
	FieldItemName = "itemName"
	FieldUOM      = "uom"
	FieldQuantity = "quantity"
	FieldRate     = "rate"
	FieldDiscount = "discount"
)

// OrderItem represents a line of an order. Total is fixed at creation.
type OrderItem struct {
	ID            string  `json:"id"`
	Category      string  `json:"category"`
	ItemName      string  `json:"itemName"`
	ManualItem    bool    `json:"manualItem"`
	Color         string  `json:"color"`
	Width         string  `json:"width"`
	UOM           string  `json:"uom"`
	Quantity      float64 `json:"quantity"`
	Rate          float64 `json:"rate"`
	Discount      float64 `json:"discount"`
	DeliveryDate  string  `json:"deliveryDate"`
	TransportName string  `json:"transportName"`
	Remark        string  `json:"remark"`
	Total         float64 `json:"total"`
}

// LineTotal returns quantity * rate reduced by the discount percentage.
func LineTotal(quantity, rate, discount float64) float64 {
	return (quantity * rate) * (1 - discount/100)
}

// Draft holds the per-item form fields as typed.
// ItemSearch is the item search box text, used as the name of a manual item.
type Draft struct {
	Category      string `json:"category"`
	ItemName      string `json:"itemName"`
	ItemSearch    string `json:"itemSearch"`
	ManualItem    bool   `json:"manualItem"`
	Color         string `json:"color"`
	Width         string `json:"width"`
	UOM           string `json:"uom"`
	Quantity      string `json:"quantity"`
	Rate          string `json:"rate"`
	Discount      string `json:"discount"`
	DeliveryDate  string `json:"deliveryDate"`
	TransportName string `json:"transportName"`
	Remark        string `json:"remark"`
}

// Name returns the item name the draft would be added with.
func (d Draft) Name() string {
	if d.ManualItem {
		return strings.TrimSpace(d.ItemSearch)
	}

	return strings.TrimSpace(d.ItemName)
}

// Build validates the draft and creates an item with the given id.
// The first failing field is returned as a *validation.FieldError.
func (d Draft) Build(id string) (OrderItem, error) {
	if d.Category == "" {
		return OrderItem{}, validation.NewFieldError(FieldCategory, "select unit name first")
	}
	name := d.Name()
	if name == "" {
		return OrderItem{}, validation.NewFieldError(FieldItemName, "item name is required")
	}
	if d.UOM == "" {
		return OrderItem{}, validation.NewFieldError(FieldUOM, "select UOM")
	}

	qty, err := parseAmount(d.Quantity)
	if err != nil {
		return OrderItem{}, validation.NewFieldError(FieldQuantity, "enter qty and rate")
	}
	if qty <= 0 {
		return OrderItem{}, validation.NewFieldError(FieldQuantity, "qty must be positive")
	}
	rate, err := parseAmount(d.Rate)
	if err != nil {
		return OrderItem{}, validation.NewFieldError(FieldRate, "enter qty and rate")
	}
	if rate < 0 {
		return OrderItem{}, validation.NewFieldError(FieldRate, "rate must not be negative")
	}

	var disc float64
	if strings.TrimSpace(d.Discount) != "" {
		disc, err = parseAmount(d.Discount)
		if err != nil || disc < 0 || disc > 100 {
			return OrderItem{}, validation.NewFieldError(FieldDiscount, "discount must be between 0 and 100")
		}
	}

	return OrderItem{
		ID:            id,
		Category:      d.Category,
		ItemName:      name,
		ManualItem:    d.ManualItem,
		Color:         d.Color,
		Width:         d.Width,
		UOM:           d.UOM,
		Quantity:      qty,
		Rate:          rate,
		Discount:      disc,
		DeliveryDate:  d.DeliveryDate,
		TransportName: d.TransportName,
		Remark:        d.Remark,
		Total:         LineTotal(qty, rate, disc),
	}, nil
}

// Next returns the draft for the following item: category and delivery
// date carry over, everything else is cleared.
func (d Draft) Next(today string) Draft {
	next := Draft{
		Category:     d.Category,
		DeliveryDate: d.DeliveryDate,
	}
	if next.DeliveryDate == "" {
		next.DeliveryDate = today
	}

	return next
}

var errNotNumeric = errors.New("not a finite number")

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumeric
	}

	return v, nil
}
