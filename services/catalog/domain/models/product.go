package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item behind the counter. Price is VAT-exclusive;
// VATRate is a percentage. RecipeID optionally links to the recipe the
// product is baked from, enabling margin reporting.
type Product struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	Name      string
	Category  string
	Price     float64
	VATRate   float64
	RecipeID  *uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct constructs a valid active Product.
func NewProduct(shopID uuid.UUID, name, category string, price, vatRate float64) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if price < 0 {
		return nil, fmt.Errorf("price must be non-negative")
	}
	if vatRate < 0 || vatRate > 100 {
		return nil, fmt.Errorf("vat rate must be between 0 and 100")
	}

	now := time.Now().UTC()
	return &Product{
		ID:        uuid.New(),
		ShopID:    shopID,
		Name:      name,
		Category:  category,
		Price:     price,
		VATRate:   vatRate,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PriceWithVAT returns the customer-facing price.
func (p *Product) PriceWithVAT() float64 {
	return p.Price * (1 + p.VATRate/100)
}
