package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRecipe  = errors.New("invalid recipe")

	// ErrUnitMismatch is returned when a recipe line's unit belongs to a
	// different family than the ingredient's base unit (e.g. grams of milk
	// when milk is tracked in millilitres).
	ErrUnitMismatch = errors.New("unit family mismatch")
)

// UnitMismatchError carries enough context for an actionable 422 response.
type UnitMismatchError struct {
	IngredientName string
	LineUnit       string
	BaseUnit       string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit %q is not compatible with %s (tracked in %s)",
		e.LineUnit, e.IngredientName, e.BaseUnit)
}

func (e *UnitMismatchError) Is(target error) bool {
	return target == ErrUnitMismatch
}
