package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/recipe/domain/models"
)

// Filter narrows recipe listings.
type Filter struct {
	Search     string
	ActiveOnly bool
}

// RecipeRepository persists Recipe aggregates including their lines.
type RecipeRepository interface {
	Save(ctx context.Context, r *models.Recipe) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Recipe, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, f Filter) ([]*models.Recipe, error)
	// Update replaces the recipe row and its full line set atomically.
	Update(ctx context.Context, r *models.Recipe) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
}
