package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invmemory "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/memory"
	recdomain "github.com/ghuser/fournil/services/recipe/domain"
	"github.com/ghuser/fournil/services/recipe/infrastructure/persistence/memory"
)

func newTestService(t *testing.T) (*RecipeService, *invmemory.IngredientStore) {
	t.Helper()
	ingredients := invmemory.NewIngredientStore()
	return NewRecipeService(memory.NewRecipeStore(), ingredients), ingredients
}

func seedIngredient(t *testing.T, store *invmemory.IngredientStore, shopID uuid.UUID, name, baseUnit string, onHand, cost float64) *invmodels.Ingredient {
	t.Helper()
	ing, err := invmodels.NewIngredient(shopID, name, "", baseUnit, onHand, cost, 0)
	if err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	if err := store.Save(context.Background(), ing); err != nil {
		t.Fatalf("save ingredient: %v", err)
	}
	return ing
}

func TestCreateRejectsUnitMismatch(t *testing.T) {
	svc, store := newTestService(t)
	shopID := uuid.New()
	milk := seedIngredient(t, store, shopID, "Milk", "mL", 2000, 0.002)

	_, err := svc.Create(context.Background(), shopID, RecipeInput{
		Name:          "Custard",
		YieldQuantity: 4,
		Lines: []LineInput{
			{IngredientID: milk.ID, Quantity: 500, Unit: "g"}, // mass unit for a volume ingredient
		},
	})
	if !errors.Is(err, recdomain.ErrUnitMismatch) {
		t.Fatalf("err = %v, want ErrUnitMismatch", err)
	}

	var mismatch *recdomain.UnitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %T, want *UnitMismatchError", err)
	}
	if mismatch.IngredientName != "Milk" || mismatch.LineUnit != "g" || mismatch.BaseUnit != "mL" {
		t.Errorf("mismatch = %+v", mismatch)
	}
}

func TestCreateAcceptsCompatibleUnits(t *testing.T) {
	svc, store := newTestService(t)
	shopID := uuid.New()
	flour := seedIngredient(t, store, shopID, "Flour", "g", 5000, 0.002)

	rec, err := svc.Create(context.Background(), shopID, RecipeInput{
		Name:          "Bread",
		YieldQuantity: 4,
		YieldUnit:     "pcs",
		IsActive:      true,
		Lines: []LineInput{
			{IngredientID: flour.ID, Quantity: 1.5, Unit: "kg"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(rec.Lines) != 1 || rec.Lines[0].Unit != "kg" {
		t.Fatalf("lines = %+v", rec.Lines)
	}

	got, err := svc.GetByID(context.Background(), shopID, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Bread" || len(got.Lines) != 1 {
		t.Fatalf("got = %+v", got)
	}
}

func TestCreateRejectsUnknownIngredient(t *testing.T) {
	svc, _ := newTestService(t)
	shopID := uuid.New()

	_, err := svc.Create(context.Background(), shopID, RecipeInput{
		Name:          "Mystery",
		YieldQuantity: 1,
		Lines: []LineInput{
			{IngredientID: uuid.New(), Quantity: 1, Unit: "pcs"},
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown line ingredient")
	}
}

func TestCostUsesCurrentPrices(t *testing.T) {
	svc, store := newTestService(t)
	shopID := uuid.New()
	flour := seedIngredient(t, store, shopID, "Flour", "g", 5000, 0.01)
	eggs := seedIngredient(t, store, shopID, "Eggs", "pcs", 10, 1.5)

	rec, err := svc.Create(context.Background(), shopID, RecipeInput{
		Name:          "Pound Cake",
		YieldQuantity: 10,
		YieldUnit:     "pcs",
		IsActive:      true,
		Lines: []LineInput{
			{IngredientID: flour.ID, Quantity: 500, Unit: "g"},
			{IngredientID: eggs.ID, Quantity: 2, Unit: "pcs"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	c, err := svc.Cost(context.Background(), shopID, rec.ID)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if c.TotalCost != 8.0 {
		t.Errorf("TotalCost = %v, want 8.0", c.TotalCost)
	}
	if c.CostPerUnit != 0.8 {
		t.Errorf("CostPerUnit = %v, want 0.8", c.CostPerUnit)
	}
	if len(c.Lines) != 2 || c.Lines[0].IngredientName != "Flour" {
		t.Errorf("lines = %+v", c.Lines)
	}

	// reprice an ingredient and cost again
	flour.CostPerBaseUnit = 0.02
	if err := store.Update(context.Background(), flour); err != nil {
		t.Fatalf("update: %v", err)
	}
	c2, err := svc.Cost(context.Background(), shopID, rec.ID)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if c2.TotalCost != 13.0 {
		t.Errorf("repriced TotalCost = %v, want 13.0", c2.TotalCost)
	}
}

func TestCheckStockEndToEnd(t *testing.T) {
	svc, store := newTestService(t)
	shopID := uuid.New()
	flour := seedIngredient(t, store, shopID, "Flour", "g", 1200, 0.01)

	rec, err := svc.Create(context.Background(), shopID, RecipeInput{
		Name:          "Bread",
		YieldQuantity: 4,
		IsActive:      true,
		Lines: []LineInput{
			{IngredientID: flour.ID, Quantity: 500, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	shortages, err := svc.CheckStock(context.Background(), shopID, rec.ID, 2)
	if err != nil {
		t.Fatalf("check stock: %v", err)
	}
	if shortages != nil {
		t.Fatalf("shortages = %v, want none", shortages)
	}

	shortages, err = svc.CheckStock(context.Background(), shopID, rec.ID, 3)
	if err != nil {
		t.Fatalf("check stock: %v", err)
	}
	if len(shortages) != 1 || shortages[0].Deficit != 300 {
		t.Fatalf("shortages = %+v, want one with deficit 300", shortages)
	}
}
