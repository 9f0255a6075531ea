package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	catmodels "github.com/ghuser/fournil/services/catalog/domain/models"
	catmemory "github.com/ghuser/fournil/services/catalog/infrastructure/persistence/memory"
	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invmemory "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/memory"
	wastedomain "github.com/ghuser/fournil/services/waste/domain"
	"github.com/ghuser/fournil/services/waste/domain/models"
	"github.com/ghuser/fournil/services/waste/domain/repositories"
	"github.com/ghuser/fournil/services/waste/infrastructure/persistence/memory"
)

type wasteFixture struct {
	svc         *WasteService
	ingredients *invmemory.IngredientStore
	shopID      uuid.UUID
	butter      *invmodels.Ingredient
	croissant   *catmodels.Product
}

func newTestWaste(t *testing.T) wasteFixture {
	t.Helper()
	shopID := uuid.New()
	ingredients := invmemory.NewIngredientStore()
	products := catmemory.NewProductStore()

	butter, err := invmodels.NewIngredient(shopID, "Butter", "dairy", "g", 2000, 0.008, 500)
	if err != nil {
		t.Fatal(err)
	}
	if err := ingredients.Save(context.Background(), butter); err != nil {
		t.Fatal(err)
	}

	croissant, err := catmodels.NewProduct(shopID, "Croissant", "Viennoiserie", 1.20, 5.5)
	if err != nil {
		t.Fatal(err)
	}
	if err := products.Save(context.Background(), croissant); err != nil {
		t.Fatal(err)
	}

	return wasteFixture{
		svc:         NewWasteService(memory.NewWasteStore(), ingredients, products),
		ingredients: ingredients,
		shopID:      shopID,
		butter:      butter,
		croissant:   croissant,
	}
}

func TestLogPricesIngredientWasteAtCurrentCost(t *testing.T) {
	fx := newTestWaste(t)
	ctx := context.Background()

	w, err := fx.svc.Log(ctx, fx.shopID, WasteInput{
		IngredientID: &fx.butter.ID,
		Quantity:     0.5,
		Unit:         "kg",
		Category:     models.WasteExpired,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if w.Quantity != 500 || w.Unit != "g" {
		t.Errorf("quantity/unit = %v %s, want 500 g", w.Quantity, w.Unit)
	}
	if w.Cost != 4.0 {
		t.Errorf("Cost = %v, want 4.0", w.Cost)
	}
	if w.ItemName != "Butter" {
		t.Errorf("name = %q", w.ItemName)
	}

	// stock untouched without the deduct flag
	ing, err := fx.ingredients.GetByID(ctx, fx.shopID, fx.butter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ing.QuantityOnHand != 2000 {
		t.Errorf("on hand = %v, want 2000", ing.QuantityOnHand)
	}
}

func TestLogCostEstimateOverridesDerivation(t *testing.T) {
	fx := newTestWaste(t)

	w, err := fx.svc.Log(context.Background(), fx.shopID, WasteInput{
		IngredientID: &fx.butter.ID,
		Quantity:     100,
		Unit:         "g",
		Category:     models.WasteSpoiled,
		CostEstimate: 9.99,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if w.Cost != 9.99 {
		t.Errorf("Cost = %v, want the manual estimate 9.99", w.Cost)
	}
}

func TestLogProductWastePricedAtSellingPrice(t *testing.T) {
	fx := newTestWaste(t)

	w, err := fx.svc.Log(context.Background(), fx.shopID, WasteInput{
		ProductID: &fx.croissant.ID,
		Quantity:  4,
		Category:  models.WasteUnsold,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if w.ItemName != "Croissant" || w.Unit != "pcs" {
		t.Errorf("item = %q %q", w.ItemName, w.Unit)
	}
	if w.Cost != 4.8 {
		t.Errorf("Cost = %v, want 4.8", w.Cost)
	}
	if w.ProductID == nil || w.IngredientID != nil {
		t.Errorf("expected product reference only, got %+v", w)
	}
}

func TestLogRejectsAmbiguousReference(t *testing.T) {
	fx := newTestWaste(t)

	_, err := fx.svc.Log(context.Background(), fx.shopID, WasteInput{
		IngredientID: &fx.butter.ID,
		ProductID:    &fx.croissant.ID,
		Quantity:     1,
		Category:     models.WasteOther,
	})
	if !errors.Is(err, wastedomain.ErrInvalidWasteLog) {
		t.Fatalf("err = %v, want ErrInvalidWasteLog", err)
	}

	_, err = fx.svc.Log(context.Background(), fx.shopID, WasteInput{
		Quantity: 1,
		Category: models.WasteOther,
	})
	if !errors.Is(err, wastedomain.ErrInvalidWasteLog) {
		t.Fatalf("err = %v, want ErrInvalidWasteLog", err)
	}
}

func TestLogWithDeduction(t *testing.T) {
	fx := newTestWaste(t)
	ctx := context.Background()

	if _, err := fx.svc.Log(ctx, fx.shopID, WasteInput{
		IngredientID:    &fx.butter.ID,
		Quantity:        300,
		Unit:            "g",
		Category:        models.WasteSpoiled,
		DeductFromStock: true,
	}); err != nil {
		t.Fatalf("log: %v", err)
	}

	ing, err := fx.ingredients.GetByID(ctx, fx.shopID, fx.butter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ing.QuantityOnHand != 1700 {
		t.Errorf("on hand = %v, want 1700", ing.QuantityOnHand)
	}
}

func TestLogDeductionOverdrawFailsWhole(t *testing.T) {
	fx := newTestWaste(t)
	ctx := context.Background()

	_, err := fx.svc.Log(ctx, fx.shopID, WasteInput{
		IngredientID:    &fx.butter.ID,
		Quantity:        3,
		Unit:            "kg",
		Category:        models.WasteOther,
		DeductFromStock: true,
	})
	if !errors.Is(err, invdomain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	logs, err := fx.svc.List(ctx, fx.shopID, repositories.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Error("failed deduction must not leave a waste log behind")
	}
}

// failingWasteStore rejects every Save while behaving normally otherwise.
type failingWasteStore struct {
	*memory.WasteStore
}

func (s *failingWasteStore) Save(ctx context.Context, w *models.WasteLog) error {
	return errors.New("disk full")
}

func TestLogFailedSaveLeavesStockUntouched(t *testing.T) {
	fx := newTestWaste(t)
	ctx := context.Background()
	fx.svc = NewWasteService(&failingWasteStore{memory.NewWasteStore()}, fx.ingredients, catmemory.NewProductStore())

	_, err := fx.svc.Log(ctx, fx.shopID, WasteInput{
		IngredientID:    &fx.butter.ID,
		Quantity:        200,
		Unit:            "g",
		Category:        models.WasteSpoiled,
		DeductFromStock: true,
	})
	if err == nil {
		t.Fatal("expected save failure")
	}

	ing, err := fx.ingredients.GetByID(ctx, fx.shopID, fx.butter.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ing.QuantityOnHand != 2000 {
		t.Errorf("on hand = %v, want 2000 after failed save", ing.QuantityOnHand)
	}
}

func TestLogRejectsUnknownCategory(t *testing.T) {
	fx := newTestWaste(t)

	_, err := fx.svc.Log(context.Background(), fx.shopID, WasteInput{
		IngredientID: &fx.butter.ID,
		Quantity:     100,
		Unit:         "g",
		Category:     "misplaced",
	})
	if !errors.Is(err, wastedomain.ErrInvalidWasteLog) {
		t.Fatalf("err = %v, want ErrInvalidWasteLog", err)
	}
}

func TestSummaryGroupsByCategory(t *testing.T) {
	fx := newTestWaste(t)
	ctx := context.Background()

	for _, c := range []models.WasteCategory{models.WasteExpired, models.WasteExpired, models.WasteSpoiled} {
		if _, err := fx.svc.Log(ctx, fx.shopID, WasteInput{
			IngredientID: &fx.butter.ID, Quantity: 100, Unit: "g", Category: c,
		}); err != nil {
			t.Fatalf("log: %v", err)
		}
	}

	totals, err := fx.svc.Summary(ctx, fx.shopID, time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("totals = %+v, want 2 categories", totals)
	}
	// sorted by category: expired before spoiled
	if totals[0].Category != models.WasteExpired || totals[0].Count != 2 {
		t.Errorf("totals[0] = %+v", totals[0])
	}
	if totals[1].Category != models.WasteSpoiled || totals[1].Count != 1 {
		t.Errorf("totals[1] = %+v", totals[1])
	}
}
