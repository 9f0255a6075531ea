package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WasteCategory classifies why stock was thrown away.
type WasteCategory string

const (
	WasteExpired     WasteCategory = "expired"
	WasteSpoiled     WasteCategory = "spoiled"
	WasteFailedBatch WasteCategory = "failed_batch"
	WasteUnsold      WasteCategory = "unsold"
	WasteOther       WasteCategory = "other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c WasteCategory) bool {
	switch c {
	case WasteExpired, WasteSpoiled, WasteFailedBatch, WasteUnsold, WasteOther:
		return true
	}
	return false
}

// WasteLog records stock thrown away. Exactly one of IngredientID and
// ProductID is set at creation; either goes nil if the referenced row is later
// deleted. ItemName and Cost are frozen at log time so waste reports survive.
type WasteLog struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	IngredientID *uuid.UUID
	ProductID    *uuid.UUID
	ItemName     string
	Quantity     float64 // ingredient waste: in the ingredient's base unit
	Unit         string
	Category     WasteCategory
	Cost         float64 // priced at log time
	Notes        string
	LoggedAt     time.Time
	CreatedAt    time.Time
}

// NewWasteLog constructs a valid waste entry for either an ingredient or a
// product.
func NewWasteLog(shopID uuid.UUID, ingredientID, productID *uuid.UUID, name, unit string, qty, cost float64, category WasteCategory) (*WasteLog, error) {
	if (ingredientID == nil) == (productID == nil) {
		return nil, fmt.Errorf("exactly one of ingredient and product must be set")
	}
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if qty <= 0 {
		return nil, fmt.Errorf("waste quantity must be positive")
	}
	if !ValidCategory(category) {
		return nil, fmt.Errorf("unknown waste category %q", category)
	}

	now := time.Now().UTC()
	return &WasteLog{
		ID:           uuid.New(),
		ShopID:       shopID,
		IngredientID: ingredientID,
		ProductID:    productID,
		ItemName:     name,
		Quantity:     qty,
		Unit:         unit,
		Category:     category,
		Cost:         cost,
		LoggedAt:     now,
		CreatedAt:    now,
	}, nil
}
