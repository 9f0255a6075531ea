// Package services holds the pure production engine. Given a run, its
// recipe, and current ingredient state, it decides what a completion would
// deduct and cost, without touching storage, so repositories can run it
// inside their transaction.
package services

import (
	"github.com/google/uuid"

	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	"github.com/ghuser/fournil/services/production/domain/models"
	recmodels "github.com/ghuser/fournil/services/recipe/domain/models"
	costing "github.com/ghuser/fournil/services/recipe/domain/services"
)

// Deduction is one stock subtraction of a completion, in the ingredient's
// base unit.
type Deduction struct {
	IngredientID uuid.UUID
	BaseQuantity float64
}

// Completion is the full effect of completing a run: the recomputed batch
// multiplier, the deductions in recipe-line order, and the realized cost at
// current prices.
type Completion struct {
	Multiplier float64
	Deductions []Deduction
	ActualCost float64
}

// Multiplier converts a run quantity into batches of the recipe yield. A
// recipe without a positive yield is treated as yielding one unit per batch.
func Multiplier(runQuantity, yieldQuantity float64) float64 {
	if yieldQuantity <= 0 {
		return runQuantity
	}
	return runQuantity / yieldQuantity
}

// BuildCompletion checks the run can complete against current stock and
// returns the deductions and realized cost. It mutates nothing. Errors:
// ErrRunAlreadyCompleted for a terminal run, InsufficientStockError listing
// every shortage when stock cannot cover the batch.
func BuildCompletion(run *models.ProductionRun, recipe *recmodels.Recipe, ingredients map[uuid.UUID]*invmodels.Ingredient) (*Completion, error) {
	if run.IsCompleted() {
		return nil, proddomain.ErrRunAlreadyCompleted
	}

	multiplier := Multiplier(run.Quantity, recipe.YieldQuantity)

	if shortages := costing.CheckStock(recipe, ingredients, multiplier); len(shortages) > 0 {
		return nil, &proddomain.InsufficientStockError{Shortages: shortages}
	}

	c := &Completion{Multiplier: multiplier}
	for _, l := range recipe.Lines {
		ing, ok := ingredients[l.IngredientID]
		if !ok {
			continue
		}
		qty := costing.LineBaseQuantity(l, multiplier)
		c.Deductions = append(c.Deductions, Deduction{IngredientID: ing.ID, BaseQuantity: qty})
		c.ActualCost += qty * ing.CostPerBaseUnit
	}
	return c, nil
}
