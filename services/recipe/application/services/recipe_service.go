package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/units"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	recdomain "github.com/ghuser/fournil/services/recipe/domain"
	"github.com/ghuser/fournil/services/recipe/domain/models"
	"github.com/ghuser/fournil/services/recipe/domain/repositories"
	costing "github.com/ghuser/fournil/services/recipe/domain/services"
)

// LineInput is one ingredient requirement as submitted by the client.
type LineInput struct {
	IngredientID uuid.UUID
	Quantity     float64
	Unit         string
}

// RecipeInput carries create/update form values.
type RecipeInput struct {
	Name             string
	Description      string
	YieldQuantity    float64
	YieldUnit        string
	EstimatedMinutes int
	IsActive         bool
	Lines            []LineInput
}

// LineCost is one line of a costing breakdown, priced at current ingredient
// prices.
type LineCost struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	Cost           float64   `json:"cost"`
}

// Costing is the full cost picture of one recipe batch.
type Costing struct {
	TotalCost   float64    `json:"total_cost"`
	CostPerUnit float64    `json:"cost_per_unit"`
	Lines       []LineCost `json:"lines"`
}

// RecipeService orchestrates recipe CRUD and costing. It reads ingredients
// to validate line units and to price batches; it never writes stock.
type RecipeService struct {
	repo        repositories.RecipeRepository
	ingredients invrepos.IngredientRepository
}

func NewRecipeService(repo repositories.RecipeRepository, ingredients invrepos.IngredientRepository) *RecipeService {
	return &RecipeService{repo: repo, ingredients: ingredients}
}

// Create validates each line against its ingredient's unit family and
// persists the recipe.
func (s *RecipeService) Create(ctx context.Context, shopID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	rec, err := models.NewRecipe(shopID, in.Name, in.Description, in.YieldQuantity, in.YieldUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recdomain.ErrInvalidRecipe, err)
	}
	rec.EstimatedTime = time.Duration(in.EstimatedMinutes) * time.Minute
	rec.IsActive = in.IsActive

	if err := s.attachLines(ctx, shopID, rec, in.Lines); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save recipe: %w", err)
	}
	return rec, nil
}

// GetByID loads a recipe with its lines.
func (s *RecipeService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Recipe, error) {
	rec, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

// List returns the shop's recipes matching the filter, ordered by name.
func (s *RecipeService) List(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Recipe, error) {
	recs, err := s.repo.FindByShop(ctx, shopID, f)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recs, nil
}

// Update overwrites the recipe and replaces its full line set.
func (s *RecipeService) Update(ctx context.Context, shopID, id uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	rec, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if in.Name == "" {
		return nil, fmt.Errorf("%w: recipe name is required", recdomain.ErrInvalidRecipe)
	}
	rec.Name = in.Name
	rec.Description = in.Description
	rec.YieldQuantity = in.YieldQuantity
	rec.YieldUnit = in.YieldUnit
	rec.EstimatedTime = time.Duration(in.EstimatedMinutes) * time.Minute
	rec.IsActive = in.IsActive
	rec.Lines = nil

	if err := s.attachLines(ctx, shopID, rec, in.Lines); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return rec, nil
}

// Delete removes the recipe and its lines.
func (s *RecipeService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, shopID, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// Cost prices one batch at current ingredient prices, with a per-line
// breakdown. Lines whose ingredient no longer exists are priced at zero.
func (s *RecipeService) Cost(ctx context.Context, shopID, id uuid.UUID) (*Costing, error) {
	rec, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	ingredients, err := s.loadIngredients(ctx, shopID, rec)
	if err != nil {
		return nil, err
	}

	c := &Costing{
		TotalCost:   costing.TotalCost(rec, ingredients),
		CostPerUnit: costing.CostPerUnit(rec, ingredients),
	}
	for _, l := range rec.Lines {
		lc := LineCost{
			IngredientID: l.IngredientID,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
		}
		if ing, ok := ingredients[l.IngredientID]; ok {
			lc.IngredientName = ing.Name
			lc.Cost = costing.LineBaseQuantity(l, 1) * ing.CostPerBaseUnit
		}
		c.Lines = append(c.Lines, lc)
	}
	return c, nil
}

// CheckStock reports which ingredients fall short of producing the given
// number of batches. Stock is not modified.
func (s *RecipeService) CheckStock(ctx context.Context, shopID, id uuid.UUID, multiplier float64) ([]costing.Shortage, error) {
	rec, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	ingredients, err := s.loadIngredients(ctx, shopID, rec)
	if err != nil {
		return nil, err
	}
	return costing.CheckStock(rec, ingredients, multiplier), nil
}

// attachLines validates each line's ingredient and unit family before adding
// it to the recipe. An unknown ingredient or incompatible unit rejects the
// whole request.
func (s *RecipeService) attachLines(ctx context.Context, shopID uuid.UUID, rec *models.Recipe, lines []LineInput) error {
	for _, in := range lines {
		ing, err := s.ingredients.GetByID(ctx, shopID, in.IngredientID)
		if err != nil {
			return fmt.Errorf("line ingredient %s: %w", in.IngredientID, err)
		}
		if err := units.CheckCompatible(in.Unit, ing.BaseUnit); err != nil {
			return &recdomain.UnitMismatchError{
				IngredientName: ing.Name,
				LineUnit:       in.Unit,
				BaseUnit:       ing.BaseUnit,
			}
		}
		if err := rec.AddLine(in.IngredientID, in.Quantity, in.Unit); err != nil {
			return fmt.Errorf("%w: %w", recdomain.ErrInvalidRecipe, err)
		}
	}
	return nil
}

func (s *RecipeService) loadIngredients(ctx context.Context, shopID uuid.UUID, rec *models.Recipe) (map[uuid.UUID]*invmodels.Ingredient, error) {
	out := make(map[uuid.UUID]*invmodels.Ingredient, len(rec.Lines))
	for _, l := range rec.Lines {
		if _, ok := out[l.IngredientID]; ok {
			continue
		}
		ing, err := s.ingredients.GetByID(ctx, shopID, l.IngredientID)
		if err != nil {
			if errors.Is(err, invdomain.ErrIngredientNotFound) {
				continue // deleted ingredient, price line at zero
			}
			return nil, fmt.Errorf("load ingredient: %w", err)
		}
		out[l.IngredientID] = ing
	}
	return out, nil
}
