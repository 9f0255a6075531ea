package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	"github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/inventory/domain/repositories"
	"github.com/ghuser/fournil/services/inventory/infrastructure/persistence/memory"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateNormalizesToBaseUnits(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	shopID := uuid.New()

	// 2.5 kg at 8.00 per kg with a 500 g minimum
	ing, err := svc.Create(context.Background(), shopID, IngredientInput{
		Name:        "Butter",
		Category:    "dairy",
		DisplayUnit: "kg",
		Quantity:    2.5,
		CostPerUnit: 8.0,
		MinStock:    0.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ing.BaseUnit != "g" {
		t.Errorf("base unit = %q, want g", ing.BaseUnit)
	}
	if ing.QuantityOnHand != 2500 {
		t.Errorf("quantity = %v, want 2500", ing.QuantityOnHand)
	}
	if !floatEq(ing.CostPerBaseUnit, 0.008) {
		t.Errorf("cost per base = %v, want 0.008", ing.CostPerBaseUnit)
	}
	if ing.MinStockLevel != 500 {
		t.Errorf("min stock = %v, want 500", ing.MinStockLevel)
	}
	if ing.DisplayQuantity() != "2.50 kg" {
		t.Errorf("display quantity = %q", ing.DisplayQuantity())
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)

	_, err := svc.Create(context.Background(), uuid.New(), IngredientInput{
		Name:        "",
		DisplayUnit: "g",
		Quantity:    100,
	})
	if !errors.Is(err, invdomain.ErrInvalidIngredient) {
		t.Fatalf("err = %v, want ErrInvalidIngredient", err)
	}
}

func TestGetByIDIsTenantScoped(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	ctx := context.Background()
	shopID := uuid.New()

	ing, err := svc.Create(ctx, shopID, IngredientInput{
		Name: "Flour", DisplayUnit: "kg", Quantity: 10, CostPerUnit: 1.2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetByID(ctx, shopID, ing.ID); err != nil {
		t.Fatalf("own shop lookup: %v", err)
	}
	_, err = svc.GetByID(ctx, uuid.New(), ing.ID)
	if !errors.Is(err, invdomain.ErrIngredientNotFound) {
		t.Fatalf("cross-shop err = %v, want ErrIngredientNotFound", err)
	}
}

func TestUpdateRewritesStockAndCost(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	ctx := context.Background()
	shopID := uuid.New()

	ing, err := svc.Create(ctx, shopID, IngredientInput{
		Name: "Milk", DisplayUnit: "L", Quantity: 5, CostPerUnit: 1.0, MinStock: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Update(ctx, shopID, ing.ID, IngredientInput{
		Name: "Whole Milk", Category: "dairy", DisplayUnit: "L",
		Quantity: 2, CostPerUnit: 1.1, MinStock: 1,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Whole Milk" || got.QuantityOnHand != 2000 {
		t.Errorf("updated = %q %v", got.Name, got.QuantityOnHand)
	}
	if !floatEq(got.CostPerBaseUnit, 0.0011) {
		t.Errorf("cost per base = %v, want 0.0011", got.CostPerBaseUnit)
	}
}

func TestDeductAllOrNothing(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	ctx := context.Background()
	shopID := uuid.New()

	ing, err := svc.Create(ctx, shopID, IngredientInput{
		Name: "Sugar", DisplayUnit: "g", Quantity: 400, CostPerUnit: 0.002,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Deduct(ctx, shopID, ing.ID, 150, "g"); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	err = svc.Deduct(ctx, shopID, ing.ID, 1, "kg")
	if !errors.Is(err, invdomain.ErrInsufficientStock) {
		t.Fatalf("overdraw err = %v, want ErrInsufficientStock", err)
	}

	got, err := svc.GetByID(ctx, shopID, ing.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.QuantityOnHand != 250 {
		t.Errorf("on hand = %v, want 250 after the failed overdraw", got.QuantityOnHand)
	}
}

func TestLowStockOrderedByQuantity(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	ctx := context.Background()
	shopID := uuid.New()

	rows := []struct {
		name     string
		qty      float64
		minStock float64
	}{
		{"Yeast", 50, 200},
		{"Salt", 0, 100},
		{"Flour", 9000, 1000},
	}
	for _, r := range rows {
		if _, err := svc.Create(ctx, shopID, IngredientInput{
			Name: r.name, DisplayUnit: "g", Quantity: r.qty, CostPerUnit: 0.01, MinStock: r.minStock,
		}); err != nil {
			t.Fatal(err)
		}
	}

	low, err := svc.LowStock(ctx, shopID)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("low stock = %d items, want 2", len(low))
	}
	if low[0].Name != "Salt" || low[0].StockStatus() != models.StockOut {
		t.Errorf("low[0] = %s (%s)", low[0].Name, low[0].StockStatus())
	}
	if low[1].Name != "Yeast" || low[1].StockStatus() != models.StockLow {
		t.Errorf("low[1] = %s (%s)", low[1].Name, low[1].StockStatus())
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := NewIngredientService(memory.NewIngredientStore(), nil)
	ctx := context.Background()
	shopID := uuid.New()

	for name, qty := range map[string]float64{"Eggs": 0, "Honey": 900} {
		if _, err := svc.Create(ctx, shopID, IngredientInput{
			Name: name, DisplayUnit: "pcs", Quantity: qty, CostPerUnit: 0.3, MinStock: 10,
		}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := svc.List(ctx, shopID, repositories.Filter{Status: models.StockOut})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].Name != "Eggs" {
		t.Errorf("filtered list = %+v, want just Eggs", out)
	}
}

func TestStockValueSumsShopOnly(t *testing.T) {
	store := memory.NewIngredientStore()
	svc := NewIngredientService(store, nil)
	ctx := context.Background()
	shopID := uuid.New()

	if _, err := svc.Create(ctx, shopID, IngredientInput{
		Name: "Almonds", DisplayUnit: "kg", Quantity: 2, CostPerUnit: 12,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, uuid.New(), IngredientInput{
		Name: "Pistachios", DisplayUnit: "kg", Quantity: 1, CostPerUnit: 30,
	}); err != nil {
		t.Fatal(err)
	}

	total, err := svc.StockValue(ctx, shopID)
	if err != nil {
		t.Fatalf("stock value: %v", err)
	}
	if !floatEq(total, 24) {
		t.Errorf("stock value = %v, want 24", total)
	}
}
