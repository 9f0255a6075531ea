package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgcache "github.com/ghuser/fournil/pkg/cache"
	"github.com/ghuser/fournil/pkg/units"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	"github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/inventory/domain/repositories"
)

// IngredientInput carries form values in the user's chosen display unit.
// Quantities, minimum stock, and cost are normalized into base units before
// persistence (cost is divided by the conversion factor: a per-kg cost becomes
// a per-g cost).
type IngredientInput struct {
	Name        string
	Category    string
	DisplayUnit string
	Quantity    float64
	CostPerUnit float64 // per display unit
	MinStock    float64
	ExpiryDate  *time.Time
	Notes       string
}

// IngredientService orchestrates ingredient CRUD and the stock ledger.
// Reads are served from Redis cache when available.
type IngredientService struct {
	repo  repositories.IngredientRepository
	cache *pkgcache.IngredientCache
}

// NewIngredientService returns an IngredientService wired with the given
// repository and cache. The cache may be nil (tests, seed CLI).
func NewIngredientService(repo repositories.IngredientRepository, cache *pkgcache.IngredientCache) *IngredientService {
	return &IngredientService{repo: repo, cache: cache}
}

// Create normalizes the input into base units and persists a new Ingredient.
func (s *IngredientService) Create(ctx context.Context, shopID uuid.UUID, in IngredientInput) (*models.Ingredient, error) {
	baseUnit := units.BaseUnitFor(in.DisplayUnit)
	factor := units.ToBase(1, in.DisplayUnit, baseUnit)

	costPerBase := in.CostPerUnit
	if factor != 0 {
		costPerBase = in.CostPerUnit / factor
	}

	ing, err := models.NewIngredient(
		shopID, in.Name, in.Category, baseUnit,
		units.ToBase(in.Quantity, in.DisplayUnit, baseUnit),
		costPerBase,
		units.ToBase(in.MinStock, in.DisplayUnit, baseUnit),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", invdomain.ErrInvalidIngredient, err)
	}
	ing.ExpiryDate = in.ExpiryDate
	ing.Notes = in.Notes

	if err := s.repo.Save(ctx, ing); err != nil {
		return nil, fmt.Errorf("save ingredient: %w", err)
	}
	return ing, nil
}

// GetByID retrieves an Ingredient using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query Postgres.
//  3. Asynchronously warm the cache with the Postgres result.
func (s *IngredientService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Ingredient, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shopID, id); err == nil {
			return &models.Ingredient{
				ID:              cached.ID,
				ShopID:          cached.ShopID,
				Name:            cached.Name,
				Category:        cached.Category,
				BaseUnit:        cached.BaseUnit,
				QuantityOnHand:  cached.QuantityOnHand,
				CostPerBaseUnit: cached.CostPerBaseUnit,
				MinStockLevel:   cached.MinStockLevel,
				CreatedAt:       cached.CreatedAt,
			}, nil
		}
		// miss or cache error, fall through to Postgres
	}

	ing, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), &pkgcache.CachedIngredient{
				ID:              ing.ID,
				ShopID:          ing.ShopID,
				Name:            ing.Name,
				Category:        ing.Category,
				BaseUnit:        ing.BaseUnit,
				QuantityOnHand:  ing.QuantityOnHand,
				CostPerBaseUnit: ing.CostPerBaseUnit,
				MinStockLevel:   ing.MinStockLevel,
				CreatedAt:       ing.CreatedAt,
			})
		}()
	}

	return ing, nil
}

// List returns the shop's ingredients matching the filter, ordered by name.
func (s *IngredientService) List(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.Ingredient, error) {
	ings, err := s.repo.FindByShop(ctx, shopID, f)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ings, nil
}

// Update normalizes the input into base units and overwrites the ingredient.
// Direct edits may set any non-negative values; they are the only path that
// can change cost or rewrite stock outright.
func (s *IngredientService) Update(ctx context.Context, shopID, id uuid.UUID, in IngredientInput) (*models.Ingredient, error) {
	ing, err := s.repo.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}

	baseUnit := units.BaseUnitFor(in.DisplayUnit)
	factor := units.ToBase(1, in.DisplayUnit, baseUnit)
	costPerBase := in.CostPerUnit
	if factor != 0 {
		costPerBase = in.CostPerUnit / factor
	}

	ing.Name = in.Name
	ing.Category = in.Category
	ing.BaseUnit = baseUnit
	ing.QuantityOnHand = units.ToBase(in.Quantity, in.DisplayUnit, baseUnit)
	ing.CostPerBaseUnit = costPerBase
	ing.MinStockLevel = units.ToBase(in.MinStock, in.DisplayUnit, baseUnit)
	ing.ExpiryDate = in.ExpiryDate
	ing.Notes = in.Notes

	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	s.invalidate(shopID, id)
	return ing, nil
}

// Delete removes an ingredient; the storage cascade drops its recipe lines.
func (s *IngredientService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, shopID, id); err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	s.invalidate(shopID, id)
	return nil
}

// Deduct subtracts qty (in the given unit) from the ingredient's stock.
// The deduction is all-or-nothing; overdraw returns InsufficientStockError.
func (s *IngredientService) Deduct(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	if err := s.repo.DeductStock(ctx, shopID, id, qty, unit); err != nil {
		return err
	}
	s.invalidate(shopID, id)
	return nil
}

// LowStock returns ingredients at or below their minimum stock level,
// ascending by quantity-on-hand. Callers distinguish "low" from "out" via
// StockStatus.
func (s *IngredientService) LowStock(ctx context.Context, shopID uuid.UUID) ([]*models.Ingredient, error) {
	ings, err := s.repo.LowStock(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return ings, nil
}

// StockValue sums the shop's on-hand stock value.
func (s *IngredientService) StockValue(ctx context.Context, shopID uuid.UUID) (float64, error) {
	return s.repo.StockValue(ctx, shopID)
}

func (s *IngredientService) invalidate(shopID, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), shopID, id)
	}
}
