package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Line is one ingredient requirement of a recipe. The quantity is expressed in
// the line's display unit, which must belong to the same unit family as the
// ingredient's base unit.
type Line struct {
	ID           uuid.UUID
	IngredientID uuid.UUID
	Quantity     float64
	Unit         string // display unit
}

// Recipe is the costing aggregate: a named set of ingredient lines producing a
// yield of some quantity and unit ("batch size").
type Recipe struct {
	ID            uuid.UUID
	ShopID        uuid.UUID // tenant scope — always filter by this in queries
	Name          string
	Description   string
	YieldQuantity float64
	YieldUnit     string
	EstimatedTime time.Duration
	IsActive      bool
	Lines         []Line // recipe-line order is preserved and meaningful
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRecipe constructs a valid Recipe with generated ID and current timestamps.
// Lines are attached separately via AddLine so each can be validated against
// its ingredient.
func NewRecipe(shopID uuid.UUID, name, description string, yieldQty float64, yieldUnit string) (*Recipe, error) {
	if name == "" {
		return nil, fmt.Errorf("recipe name is required")
	}
	if yieldQty < 0 {
		return nil, fmt.Errorf("yield quantity must be non-negative")
	}
	if yieldUnit == "" {
		yieldUnit = "pcs"
	}

	now := time.Now().UTC()
	return &Recipe{
		ID:            uuid.New(),
		ShopID:        shopID,
		Name:          name,
		Description:   description,
		YieldQuantity: yieldQty,
		YieldUnit:     yieldUnit,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// AddLine appends an ingredient requirement. Quantity must be positive;
// unit-family compatibility against the ingredient is enforced by the
// application layer, which has the ingredient at hand.
func (r *Recipe) AddLine(ingredientID uuid.UUID, qty float64, unit string) error {
	if qty <= 0 {
		return fmt.Errorf("line quantity must be positive")
	}
	if unit == "" {
		return fmt.Errorf("line unit is required")
	}
	r.Lines = append(r.Lines, Line{
		ID:           uuid.New(),
		IngredientID: ingredientID,
		Quantity:     qty,
		Unit:         unit,
	})
	return nil
}
