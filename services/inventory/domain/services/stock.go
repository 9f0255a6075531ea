// Package services contains stateless domain services for the inventory
// context: the ledger arithmetic shared by the postgres repository and the
// in-memory store.
package services

import (
	"github.com/ghuser/fournil/pkg/units"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	"github.com/ghuser/fournil/services/inventory/domain/models"
)

// ApplyDeduction converts qty/unit into the ingredient's base unit and
// subtracts it from the snapshot's quantity-on-hand. The deduction is
// all-or-nothing: on insufficient stock the snapshot is left untouched and an
// InsufficientStockError describing the deficit is returned.
func ApplyDeduction(ing *models.Ingredient, qty float64, unit string) error {
	baseQty := units.ToBase(qty, unit, ing.BaseUnit)
	if ing.QuantityOnHand < baseQty {
		return &invdomain.InsufficientStockError{
			IngredientName: ing.Name,
			Needed:         baseQty,
			Available:      ing.QuantityOnHand,
			Unit:           ing.BaseUnit,
		}
	}
	ing.QuantityOnHand -= baseQty
	return nil
}

// Restock adds qty/unit (converted to base units) to the snapshot. Used by
// direct stock edits and to undo deductions when a batch operation fails.
func Restock(ing *models.Ingredient, qty float64, unit string) {
	ing.QuantityOnHand += units.ToBase(qty, unit, ing.BaseUnit)
}
