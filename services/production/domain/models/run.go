package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a production run. Completed is terminal.
type RunStatus string

const (
	RunPlanned   RunStatus = "planned"
	RunCompleted RunStatus = "completed"
)

// ProductionRun schedules producing Quantity yield-units of a recipe.
// PlannedCost is priced when the run is created; ActualCost is priced at
// completion time, so the two diverge when ingredient prices move in between.
type ProductionRun struct {
	ID           uuid.UUID
	ShopID       uuid.UUID
	RecipeID     uuid.UUID
	RecipeName   string // denormalized for listings
	Quantity     float64
	Status       RunStatus
	PlannedCost  float64
	ActualCost   float64
	Notes        string
	ScheduledFor *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProductionRun constructs a planned run.
func NewProductionRun(shopID, recipeID uuid.UUID, quantity float64) (*ProductionRun, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("run quantity must be positive")
	}

	now := time.Now().UTC()
	return &ProductionRun{
		ID:        uuid.New(),
		ShopID:    shopID,
		RecipeID:  recipeID,
		Quantity:  quantity,
		Status:    RunPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsCompleted reports whether the run reached its terminal state.
func (r *ProductionRun) IsCompleted() bool {
	return r.Status == RunCompleted
}

// MarkCompleted records the realized cost and completion time.
func (r *ProductionRun) MarkCompleted(actualCost float64, at time.Time) {
	r.Status = RunCompleted
	r.ActualCost = actualCost
	r.CompletedAt = &at
	r.UpdatedAt = at
}
