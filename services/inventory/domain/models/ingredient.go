package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/units"
)

// StockStatus classifies an ingredient's quantity-on-hand against its
// minimum stock level.
type StockStatus string

const (
	StockOut StockStatus = "out"
	StockLow StockStatus = "low"
	StockOK  StockStatus = "ok"
)

// Ingredient is the core aggregate of the inventory context. Quantities,
// costs, and minimum stock levels are stored in the ingredient's base unit
// (g, mL, or pcs); display units are converted at the boundary.
type Ingredient struct {
	ID              uuid.UUID
	ShopID          uuid.UUID // tenant scope — always filter by this in queries
	Name            string
	Category        string
	BaseUnit        string
	QuantityOnHand  float64 // base units; can go negative only via direct edits
	CostPerBaseUnit float64
	MinStockLevel   float64 // base units
	ExpiryDate      *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewIngredient constructs a valid Ingredient with generated ID and current
// timestamps. Quantities and cost must be non-negative at creation; the base
// unit must be one of the canonical units.
func NewIngredient(shopID uuid.UUID, name, category, baseUnit string, qty, costPerBase, minStock float64) (*Ingredient, error) {
	if name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}
	switch baseUnit {
	case units.Gram, units.Milliliter, units.Piece:
	default:
		return nil, fmt.Errorf("base unit must be one of g, mL, pcs; got %q", baseUnit)
	}
	if qty < 0 {
		return nil, fmt.Errorf("quantity on hand must be non-negative")
	}
	if costPerBase < 0 {
		return nil, fmt.Errorf("cost per base unit must be non-negative")
	}
	if minStock < 0 {
		return nil, fmt.Errorf("minimum stock level must be non-negative")
	}

	now := time.Now().UTC()
	return &Ingredient{
		ID:              uuid.New(),
		ShopID:          shopID,
		Name:            name,
		Category:        category,
		BaseUnit:        baseUnit,
		QuantityOnHand:  qty,
		CostPerBaseUnit: costPerBase,
		MinStockLevel:   minStock,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// StockStatus derives out/low/ok from quantity-on-hand and the minimum level.
func (i *Ingredient) StockStatus() StockStatus {
	if i.QuantityOnHand <= 0 {
		return StockOut
	}
	if i.QuantityOnHand <= i.MinStockLevel {
		return StockLow
	}
	return StockOK
}

// StockValue is the monetary value of the on-hand quantity.
func (i *Ingredient) StockValue() float64 {
	return i.QuantityOnHand * i.CostPerBaseUnit
}

// IsExpired reports whether the ingredient's expiry date has passed.
// Ingredients without an expiry date never expire.
func (i *Ingredient) IsExpired(now time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return i.ExpiryDate.Before(now.Truncate(24 * time.Hour))
}

// DisplayQuantity renders quantity-on-hand in a readable unit, e.g. "2.50 kg".
func (i *Ingredient) DisplayQuantity() string {
	return units.Format(i.QuantityOnHand, i.BaseUnit)
}

// DisplayMinStock renders the minimum stock level in a readable unit.
func (i *Ingredient) DisplayMinStock() string {
	return units.Format(i.MinStockLevel, i.BaseUnit)
}
