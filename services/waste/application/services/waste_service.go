package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/pkg/units"
	catrepos "github.com/ghuser/fournil/services/catalog/domain/repositories"
	invrepos "github.com/ghuser/fournil/services/inventory/domain/repositories"
	wastedomain "github.com/ghuser/fournil/services/waste/domain"
	"github.com/ghuser/fournil/services/waste/domain/models"
	"github.com/ghuser/fournil/services/waste/domain/repositories"
)

// WasteInput carries a waste entry as submitted by the client. Exactly one of
// IngredientID and ProductID must be set. Quantity is in the given display
// unit for ingredient waste, a plain count for product waste.
type WasteInput struct {
	IngredientID *uuid.UUID
	ProductID    *uuid.UUID
	Quantity     float64
	Unit         string
	Category     models.WasteCategory
	Notes        string
	// CostEstimate overrides the derived cost when positive. Product waste
	// with no override is priced at the product's current selling price.
	CostEstimate float64
	// DeductFromStock also subtracts the wasted quantity from on-hand stock.
	// Shops logging waste discovered during stocktake leave it off, since the
	// count already reflects the loss. Ignored for product waste.
	DeductFromStock bool
}

// WasteService records thrown-away stock and prices each loss at log time.
type WasteService struct {
	repo        repositories.WasteRepository
	ingredients invrepos.IngredientRepository
	products    catrepos.ProductRepository
}

func NewWasteService(repo repositories.WasteRepository, ingredients invrepos.IngredientRepository, products catrepos.ProductRepository) *WasteService {
	return &WasteService{repo: repo, ingredients: ingredients, products: products}
}

// Log records a waste entry. Ingredient waste is converted to base units and
// priced at the ingredient's current cost per base unit; when DeductFromStock
// is set the quantity is also removed from inventory, all-or-nothing. Product
// waste is priced at the product's selling price. A positive CostEstimate
// overrides either derivation.
func (s *WasteService) Log(ctx context.Context, shopID uuid.UUID, in WasteInput) (*models.WasteLog, error) {
	switch {
	case in.IngredientID != nil && in.ProductID == nil:
		return s.logIngredient(ctx, shopID, in)
	case in.ProductID != nil && in.IngredientID == nil:
		return s.logProduct(ctx, shopID, in)
	}
	return nil, fmt.Errorf("%w: exactly one of ingredient_id and product_id must be set", wastedomain.ErrInvalidWasteLog)
}

func (s *WasteService) logIngredient(ctx context.Context, shopID uuid.UUID, in WasteInput) (*models.WasteLog, error) {
	ing, err := s.ingredients.GetByID(ctx, shopID, *in.IngredientID)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}

	baseQty := units.ToBase(in.Quantity, in.Unit, ing.BaseUnit)
	cost := in.CostEstimate
	if cost <= 0 {
		cost = baseQty * ing.CostPerBaseUnit
	}

	w, err := models.NewWasteLog(shopID, &ing.ID, nil, ing.Name, ing.BaseUnit, baseQty, cost, in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wastedomain.ErrInvalidWasteLog, err)
	}
	w.Notes = in.Notes

	// Save before touching stock so a failed write cannot leave a deduction
	// with no log behind it. A failed deduction removes the log again.
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("save waste log: %w", err)
	}
	if in.DeductFromStock {
		if err := s.ingredients.DeductStock(ctx, shopID, ing.ID, in.Quantity, in.Unit); err != nil {
			if delErr := s.repo.Delete(ctx, shopID, w.ID); delErr != nil {
				return nil, fmt.Errorf("deduct stock: %w (removing log: %v)", err, delErr)
			}
			return nil, err
		}
	}
	return w, nil
}

func (s *WasteService) logProduct(ctx context.Context, shopID uuid.UUID, in WasteInput) (*models.WasteLog, error) {
	p, err := s.products.GetByID(ctx, shopID, *in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	cost := in.CostEstimate
	if cost <= 0 {
		cost = in.Quantity * p.Price
	}

	w, err := models.NewWasteLog(shopID, nil, &p.ID, p.Name, "pcs", in.Quantity, cost, in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", wastedomain.ErrInvalidWasteLog, err)
	}
	w.Notes = in.Notes

	if err := s.repo.Save(ctx, w); err != nil {
		return nil, fmt.Errorf("save waste log: %w", err)
	}
	return w, nil
}

// List returns the shop's waste entries matching the filter, newest first.
func (s *WasteService) List(ctx context.Context, shopID uuid.UUID, f repositories.Filter) ([]*models.WasteLog, error) {
	logs, err := s.repo.FindByShop(ctx, shopID, f)
	if err != nil {
		return nil, fmt.Errorf("list waste logs: %w", err)
	}
	return logs, nil
}

// Delete removes a waste entry. Stock is not restored; a mislogged deduction
// is corrected by editing the ingredient.
func (s *WasteService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, shopID, id); err != nil {
		return fmt.Errorf("delete waste log: %w", err)
	}
	return nil
}

// Summary breaks down waste cost per category over [from, to).
func (s *WasteService) Summary(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]repositories.CategoryTotal, error) {
	totals, err := s.repo.CostByCategory(ctx, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("waste summary: %w", err)
	}
	return totals, nil
}
