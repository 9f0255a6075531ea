package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/inventory/domain/models"
)

// Filter narrows FindByShop results. Zero values mean "no constraint".
type Filter struct {
	Search   string             // case-insensitive substring match on name
	Category string             // exact category match
	Status   models.StockStatus // derived stock status match
}

// IngredientRepository is the persistence interface for the Ingredient
// aggregate. The domain layer owns this interface; infrastructure implements it.
type IngredientRepository interface {
	Save(ctx context.Context, ing *models.Ingredient) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Ingredient, error)

	// FindByShop lists a shop's ingredients matching the filter, ordered by name.
	FindByShop(ctx context.Context, shopID uuid.UUID, f Filter) ([]*models.Ingredient, error)

	// LowStock lists ingredients with quantity-on-hand at or below the minimum
	// stock level (including zero and negative), ascending by quantity-on-hand.
	LowStock(ctx context.Context, shopID uuid.UUID) ([]*models.Ingredient, error)

	Update(ctx context.Context, ing *models.Ingredient) error

	// Delete removes an ingredient; recipe lines referencing it are removed by
	// the storage layer's cascade rule.
	Delete(ctx context.Context, shopID, id uuid.UUID) error

	// DeductStock atomically subtracts qty (given in unit, converted to base
	// units) from the ingredient's quantity-on-hand. No partial deduction is
	// ever applied; overdraw fails with InsufficientStockError.
	DeductStock(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error

	// RestoreStock adds qty (given in unit, converted to base units) back to
	// the ingredient's quantity-on-hand. Callers use it to undo a deduction
	// when a multi-ingredient operation fails partway.
	RestoreStock(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error

	// StockValue sums quantity-on-hand × cost-per-base-unit across the shop.
	StockValue(ctx context.Context, shopID uuid.UUID) (float64, error)
}
