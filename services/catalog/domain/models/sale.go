package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaleItem is one checkout line, priced at sale time. Prices are frozen on
// the line so later product edits never rewrite history.
type SaleItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   float64 // VAT-exclusive
	Quantity    int
	VATRate     float64
	LineTotal   float64 // VAT-inclusive
}

// Payment methods accepted at the till.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
)

// Sale is one completed checkout.
type Sale struct {
	ID            uuid.UUID
	ShopID        uuid.UUID
	Items         []SaleItem
	Subtotal      float64 // sum of lines, VAT-exclusive
	VATAmount     float64
	Total         float64
	PaymentMethod string
	CustomerName  string
	Note          string
	CreatedAt     time.Time
}

// NewSale builds a Sale from priced lines: per line the net is price times
// quantity and VAT is the line's rate applied to the net, so a mixed-rate
// basket taxes each line at its own rate.
func NewSale(shopID uuid.UUID, items []SaleItem, paymentMethod, customerName, note string) (*Sale, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("sale requires at least one item")
	}

	s := &Sale{
		ID:            uuid.New(),
		ShopID:        shopID,
		PaymentMethod: paymentMethod,
		CustomerName:  customerName,
		Note:          note,
		CreatedAt:     time.Now().UTC(),
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for %s must be positive", it.ProductName)
		}
		net := it.UnitPrice * float64(it.Quantity)
		vat := net * it.VATRate / 100
		it.LineTotal = net + vat
		s.Subtotal += net
		s.VATAmount += vat
		s.Total += it.LineTotal
		s.Items = append(s.Items, it)
	}
	return s, nil
}
