package domain

import (
	"errors"
	"fmt"
	"strings"

	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	costing "github.com/ghuser/fournil/services/recipe/domain/services"
)

var (
	ErrRunNotFound = errors.New("production run not found")
	ErrInvalidRun  = errors.New("invalid production run")

	// ErrRunAlreadyCompleted rejects a second completion attempt; completion
	// is terminal and never deducts stock twice.
	ErrRunAlreadyCompleted = errors.New("production run already completed")

	// ErrCompletedRunImmutable rejects edits and deletes of completed runs.
	ErrCompletedRunImmutable = errors.New("completed production run cannot be modified")
)

// InsufficientStockError reports every shortage blocking a completion, in
// recipe-line order. No stock is deducted when it is returned.
type InsufficientStockError struct {
	Shortages []costing.Shortage
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		names[i] = s.IngredientName
	}
	return fmt.Sprintf("insufficient stock for: %s", strings.Join(names, ", "))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == invdomain.ErrInsufficientStock
}
