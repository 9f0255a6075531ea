package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrIngredientNotFound indicates the requested ingredient does not exist
	// for the caller's shop. Cross-shop lookups report the same error so
	// existence never leaks across tenants.
	ErrIngredientNotFound = errors.New("ingredient not found")

	// ErrInvalidIngredient indicates the ingredient violates domain constraints.
	ErrInvalidIngredient = errors.New("invalid ingredient")

	// ErrInsufficientStock is the sentinel matched by errors.Is for
	// InsufficientStockError values.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a deduction that would overdraw an
// ingredient. Amounts are in the ingredient's base unit.
type InsufficientStockError struct {
	IngredientName string
	Needed         float64
	Available      float64
	Unit           string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: need %.1f %s, have %.1f %s",
		e.IngredientName, e.Needed, e.Unit, e.Available, e.Unit)
}

// Is makes errors.Is(err, ErrInsufficientStock) match.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
