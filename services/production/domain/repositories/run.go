package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/production/domain/models"
)

// Filter narrows run listings.
type Filter struct {
	Status   models.RunStatus
	RecipeID uuid.UUID
}

// RunRepository persists ProductionRuns. Complete is the only path that
// deducts stock; implementations must make it atomic so a run never deducts
// twice and never deducts partially.
type RunRepository interface {
	Save(ctx context.Context, run *models.ProductionRun) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, f Filter) ([]*models.ProductionRun, error)
	// Update persists notes/schedule edits of a planned run.
	Update(ctx context.Context, run *models.ProductionRun) error
	// Delete removes a planned run. Completed runs are immutable.
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	// Complete recomputes the batch multiplier, verifies stock, deducts each
	// recipe line in order, records the realized cost, and marks the run
	// completed, all in one transaction.
	Complete(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error)
	// CompletedBetween lists runs completed in [from, to), newest first.
	CompletedBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.ProductionRun, error)
}
