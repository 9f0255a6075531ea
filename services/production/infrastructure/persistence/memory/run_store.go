// Package memory provides an in-memory RunRepository used by tests and local
// experiments. Completion semantics mirror the postgres implementation: one
// completion wins, losers see ErrRunAlreadyCompleted, and nothing is deducted
// when stock is short.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	"github.com/ghuser/fournil/services/production/domain/models"
	"github.com/ghuser/fournil/services/production/domain/repositories"
	engine "github.com/ghuser/fournil/services/production/domain/services"
	recrepos "github.com/ghuser/fournil/services/recipe/domain/repositories"
)

// RunStore is a mutex-guarded map-backed RunRepository. The mutex also
// serializes completions, standing in for the row locks postgres takes.
type RunStore struct {
	mu          sync.Mutex
	runs        map[uuid.UUID]*models.ProductionRun
	recipes     recrepos.RecipeRepository
	ingredients invrepos.IngredientRepository
}

// NewRunStore returns an empty in-memory store backed by the given recipe and
// ingredient repositories.
func NewRunStore(recipes recrepos.RecipeRepository, ingredients invrepos.IngredientRepository) *RunStore {
	return &RunStore{
		runs:        make(map[uuid.UUID]*models.ProductionRun),
		recipes:     recipes,
		ingredients: ingredients,
	}
}

func copyRun(r *models.ProductionRun) *models.ProductionRun {
	cp := *r
	return &cp
}

func (s *RunStore) Save(_ context.Context, run *models.ProductionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *RunStore) GetByID(_ context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok || run.ShopID != shopID {
		return nil, proddomain.ErrRunNotFound
	}
	return copyRun(run), nil
}

func (s *RunStore) FindByShop(_ context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.ProductionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ProductionRun
	for _, run := range s.runs {
		if run.ShopID != shopID {
			continue
		}
		if f.Status != "" && run.Status != f.Status {
			continue
		}
		if f.RecipeID != uuid.Nil && run.RecipeID != f.RecipeID {
			continue
		}
		out = append(out, copyRun(run))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *RunStore) CompletedBetween(_ context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.ProductionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ProductionRun
	for _, run := range s.runs {
		if run.ShopID != shopID || run.CompletedAt == nil {
			continue
		}
		if run.CompletedAt.Before(from) || !run.CompletedAt.Before(to) {
			continue
		}
		out = append(out, copyRun(run))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(*out[j].CompletedAt) })
	return out, nil
}

func (s *RunStore) Update(_ context.Context, run *models.ProductionRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.runs[run.ID]
	if !ok || cur.ShopID != run.ShopID {
		return proddomain.ErrRunNotFound
	}
	if cur.IsCompleted() {
		return proddomain.ErrCompletedRunImmutable
	}
	s.runs[run.ID] = copyRun(run)
	return nil
}

func (s *RunStore) Delete(_ context.Context, shopID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok || run.ShopID != shopID {
		return proddomain.ErrRunNotFound
	}
	if run.IsCompleted() {
		return proddomain.ErrCompletedRunImmutable
	}
	delete(s.runs, id)
	return nil
}

func (s *RunStore) Complete(ctx context.Context, shopID, id uuid.UUID) (*models.ProductionRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[id]
	if !ok || run.ShopID != shopID {
		return nil, proddomain.ErrRunNotFound
	}

	recipe, err := s.recipes.GetByID(ctx, shopID, run.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	run.RecipeName = recipe.Name

	ingredients := make(map[uuid.UUID]*invmodels.Ingredient, len(recipe.Lines))
	for _, l := range recipe.Lines {
		if _, ok := ingredients[l.IngredientID]; ok {
			continue
		}
		ing, err := s.ingredients.GetByID(ctx, shopID, l.IngredientID)
		if err != nil {
			continue
		}
		ingredients[l.IngredientID] = ing
	}

	plan, err := engine.BuildCompletion(run, recipe, ingredients)
	if err != nil {
		return nil, err
	}

	// The ingredient store has its own lock, so a line can still fail under
	// us. Restore the lines already applied before reporting the failure.
	for i, d := range plan.Deductions {
		ing := ingredients[d.IngredientID]
		if err := s.ingredients.DeductStock(ctx, shopID, d.IngredientID, d.BaseQuantity, ing.BaseUnit); err != nil {
			for _, undo := range plan.Deductions[:i] {
				prev := ingredients[undo.IngredientID]
				if restoreErr := s.ingredients.RestoreStock(ctx, shopID, undo.IngredientID, undo.BaseQuantity, prev.BaseUnit); restoreErr != nil {
					return nil, fmt.Errorf("deduct ingredient: %w (restoring stock: %v)", err, restoreErr)
				}
			}
			return nil, fmt.Errorf("deduct ingredient: %w", err)
		}
	}

	run.MarkCompleted(plan.ActualCost, time.Now().UTC())
	return copyRun(run), nil
}
