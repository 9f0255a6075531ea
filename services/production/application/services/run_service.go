package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	"github.com/ghuser/fournil/services/production/domain/models"
	"github.com/ghuser/fournil/services/production/domain/repositories"
	engine "github.com/ghuser/fournil/services/production/domain/services"
	recmodels "github.com/ghuser/fournil/services/recipe/domain/models"
	recrepos "github.com/ghuser/fournil/services/recipe/domain/repositories"
	costing "github.com/ghuser/fournil/services/recipe/domain/services"
)

// RunInput carries create/update form values for a production run.
type RunInput struct {
	RecipeID     uuid.UUID
	Quantity     float64
	Notes        string
	ScheduledFor *time.Time
}

// RunService orchestrates the production run lifecycle. Planned cost is
// priced at creation; completion reprices at current ingredient prices, so
// the two diverge when prices move between planning and baking.
type RunService struct {
	runs        repositories.RunRepository
	recipes     recrepos.RecipeRepository
	ingredients invrepos.IngredientRepository
}

func NewRunService(runs repositories.RunRepository, recipes recrepos.RecipeRepository, ingredients invrepos.IngredientRepository) *RunService {
	return &RunService{runs: runs, recipes: recipes, ingredients: ingredients}
}

// Create plans a run of Quantity yield-units and prices it at today's
// ingredient prices. Stock is not checked or deducted; shortages surface at
// completion time.
func (s *RunService) Create(ctx context.Context, shopID uuid.UUID, in RunInput) (*models.ProductionRun, error) {
	recipe, err := s.recipes.GetByID(ctx, shopID, in.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	run, err := models.NewProductionRun(shopID, recipe.ID, in.Quantity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", proddomain.ErrInvalidRun, err)
	}
	run.RecipeName = recipe.Name
	run.Notes = in.Notes
	run.ScheduledFor = in.ScheduledFor

	run.PlannedCost, err = s.priceRun(ctx, shopID, recipe, run.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save production run: %w", err)
	}
	return run, nil
}

// GetByID loads a run scoped to the shop.
func (s *RunService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	run, err := s.runs.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get production run: %w", err)
	}
	return run, nil
}

// List returns the shop's runs matching the filter, newest first.
func (s *RunService) List(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.ProductionRun, error) {
	runs, err := s.runs.FindByShop(ctx, shopID, f)
	if err != nil {
		return nil, fmt.Errorf("list production runs: %w", err)
	}
	return runs, nil
}

// Update edits a planned run and reprices its planned cost. Completed runs
// are immutable.
func (s *RunService) Update(ctx context.Context, shopID, id uuid.UUID, in RunInput) (*models.ProductionRun, error) {
	run, err := s.runs.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get production run: %w", err)
	}
	if run.IsCompleted() {
		return nil, proddomain.ErrCompletedRunImmutable
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: run quantity must be positive", proddomain.ErrInvalidRun)
	}

	recipe, err := s.recipes.GetByID(ctx, shopID, run.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	run.Quantity = in.Quantity
	run.Notes = in.Notes
	run.ScheduledFor = in.ScheduledFor
	run.PlannedCost, err = s.priceRun(ctx, shopID, recipe, run.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("update production run: %w", err)
	}
	return run, nil
}

// Delete removes a planned run. Completed runs are part of the production
// history and cannot be deleted.
func (s *RunService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.runs.Delete(ctx, shopID, id); err != nil {
		return err
	}
	return nil
}

// Complete deducts the run's ingredient requirements and records the realized
// cost. All-or-nothing: a shortage anywhere leaves every ingredient untouched,
// and a second completion attempt fails without deducting again.
func (s *RunService) Complete(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	return s.runs.Complete(ctx, shopID, id)
}

func (s *RunService) priceRun(ctx context.Context, shopID uuid.UUID, recipe *recmodels.Recipe, quantity float64) (float64, error) {
	ingredients := make(map[uuid.UUID]*invmodels.Ingredient, len(recipe.Lines))
	for _, l := range recipe.Lines {
		if _, ok := ingredients[l.IngredientID]; ok {
			continue
		}
		ing, err := s.ingredients.GetByID(ctx, shopID, l.IngredientID)
		if err != nil {
			if errors.Is(err, invdomain.ErrIngredientNotFound) {
				continue
			}
			return 0, fmt.Errorf("load ingredient: %w", err)
		}
		ingredients[l.IngredientID] = ing
	}
	multiplier := engine.Multiplier(quantity, recipe.YieldQuantity)
	return costing.TotalCost(recipe, ingredients) * multiplier, nil
}
