// Package services holds the pure costing and stock-check logic for recipes.
// Functions here take everything they need as arguments and never touch
// storage, so they can run inside a caller's transaction.
package services

import (
	"github.com/google/uuid"

	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/pkg/units"
	"github.com/ghuser/fournil/services/recipe/domain/models"
)

// Shortage describes one ingredient that cannot cover a requirement. Deficit
// is exactly Needed minus Available, in the ingredient's base unit.
type Shortage struct {
	IngredientName string  `json:"ingredient_name"`
	Needed         float64 `json:"needed"`
	Available      float64 `json:"available"`
	Unit           string  `json:"unit"`
	Deficit        float64 `json:"deficit"`
}

// LineBaseQuantity returns the line's requirement converted to base units and
// scaled by the multiplier.
func LineBaseQuantity(l models.Line, multiplier float64) float64 {
	return units.ToBase(l.Quantity*multiplier, l.Unit, units.BaseUnitFor(l.Unit))
}

// TotalCost prices one batch of the recipe at current ingredient prices.
// Lines whose ingredient is missing from the map contribute zero.
func TotalCost(r *models.Recipe, ingredients map[uuid.UUID]*invmodels.Ingredient) float64 {
	var total float64
	for _, l := range r.Lines {
		ing, ok := ingredients[l.IngredientID]
		if !ok {
			continue
		}
		total += LineBaseQuantity(l, 1) * ing.CostPerBaseUnit
	}
	return total
}

// CostPerUnit divides the batch cost by the recipe yield. When the yield is
// zero or negative the batch size is unknown, so the whole batch cost stands
// in as the per-unit cost.
func CostPerUnit(r *models.Recipe, ingredients map[uuid.UUID]*invmodels.Ingredient) float64 {
	if r.YieldQuantity <= 0 {
		return TotalCost(r, ingredients)
	}
	return TotalCost(r, ingredients) / r.YieldQuantity
}

// CheckStock compares the recipe's scaled requirements against current stock
// and returns one Shortage per insufficient ingredient, in line order. A nil
// result means the batch can be produced. Stock is not modified.
func CheckStock(r *models.Recipe, ingredients map[uuid.UUID]*invmodels.Ingredient, multiplier float64) []Shortage {
	var shortages []Shortage
	for _, l := range r.Lines {
		ing, ok := ingredients[l.IngredientID]
		if !ok {
			continue
		}
		needed := LineBaseQuantity(l, multiplier)
		if ing.QuantityOnHand < needed {
			shortages = append(shortages, Shortage{
				IngredientName: ing.Name,
				Needed:         needed,
				Available:      ing.QuantityOnHand,
				Unit:           ing.BaseUnit,
				Deficit:        needed - ing.QuantityOnHand,
			})
		}
	}
	return shortages
}
