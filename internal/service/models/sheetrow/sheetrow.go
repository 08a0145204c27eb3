package sheetrow

import (
	"fmt"
	"time"

	"github.com/corray333/backend-labs/portal/internal/service/models/order"
)

const (
	notAvailable = "N/A"
	standard     = "STD"
)

// Row is one spreadsheet line. Field order follows the sheet columns;
// Branch selects the tab the row is appended to and must stay verbatim.
type Row struct {
	Timestamp       string  `json:"Timestamp"`
	CustomerPO      string  `json:"Customer PO"`
	CustomerName    string  `json:"Customer Name"`
	CustomerEmail   string  `json:"Customer Email"`
	OrderDate       string  `json:"Order Date"`
	Unit            string  `json:"Unit"`
	ItemName        string  `json:"Item Name"`
	Color           string  `json:"Color"`
	Width           string  `json:"Width"`
	ItemUOM         string  `json:"Unit (of item)"`
	Qty             float64 `json:"Qty"`
	Rate            float64 `json:"Rate"`
	Discount        float64 `json:"Discount"`
	DeliveryDate    string  `json:"Delivery Date"`
	Remark          string  `json:"Remark"`
	CustomerNumber  string  `json:"Customer Number"`
	BillingAddress  string  `json:"Billing Address"`
	DeliveryAddress string  `json:"Delivery Address"`
	TransporterName string  `json:"Transporter Name"`
	SalesPerson     string  `json:"Sales Person Name"`
	AccountStatus   string  `json:"Account Status"`
	Branch          string  `json:"Branch"`
}

// FormatTimestamp renders t the way the sheet's Timestamp column expects,
// e.g. "17/10/2026, 3:04:05 pm".
func FormatTimestamp(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}

	return fmt.Sprintf("%s, %d:%02d:%02d %s",
		t.Format("02/01/2006"), hour, t.Minute(), t.Second(), meridiem)
}

// FromOrder flattens an order into one row per item, in item order.
// now is the submission time written to every row.
func FromOrder(o order.Order, now time.Time) []Row {
	var cust order.CustomerSnapshot
	if o.Customer != nil {
		cust = *o.Customer
	}
	stamp := FormatTimestamp(now)

	rows := make([]Row, 0, len(o.Items))
	for _, item := range o.Items {
		rows = append(rows, Row{
			Timestamp:       stamp,
			CustomerPO:      orDefault(o.CustomerPONo, notAvailable),
			CustomerName:    orDefault(cust.Name, notAvailable),
			CustomerEmail:   orDefault(cust.Email, notAvailable),
			OrderDate:       o.OrderDate,
			Unit:            item.Category,
			ItemName:        item.ItemName,
			Color:           orDefault(item.Color, standard),
			Width:           orDefault(item.Width, standard),
			ItemUOM:         item.UOM,
			Qty:             item.Quantity,
			Rate:            item.Rate,
			Discount:        item.Discount,
			DeliveryDate:    item.DeliveryDate,
			Remark:          item.Remark,
			CustomerNumber:  orDefault(cust.ContactNo, notAvailable),
			BillingAddress:  orDefault(o.BillingAddress, notAvailable),
			DeliveryAddress: orDefault(o.DeliveryAddress, notAvailable),
			TransporterName: orDefault(item.TransportName, notAvailable),
			SalesPerson:     o.SalesPerson,
			AccountStatus:   orDefault(o.AccountStatus, "Active"),
			Branch:          o.Branch,
		})
	}

	return rows
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
