package services

import (
	"math"
	"testing"

	"github.com/google/uuid"

	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	"github.com/ghuser/fournil/services/recipe/domain/models"
)

func makeIngredient(name, baseUnit string, onHand, cost float64) *invmodels.Ingredient {
	return &invmodels.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		BaseUnit:        baseUnit,
		QuantityOnHand:  onHand,
		CostPerBaseUnit: cost,
	}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalCostAndCostPerUnit(t *testing.T) {
	flour := makeIngredient("Flour", "g", 1200, 0.01)
	eggs := makeIngredient("Eggs", "pcs", 10, 1.5)

	r := &models.Recipe{
		Name:          "Pound Cake",
		YieldQuantity: 10,
		YieldUnit:     "pcs",
		Lines: []models.Line{
			{IngredientID: flour.ID, Quantity: 500, Unit: "g"},
			{IngredientID: eggs.ID, Quantity: 2, Unit: "pcs"},
		},
	}
	ingredients := map[uuid.UUID]*invmodels.Ingredient{
		flour.ID: flour,
		eggs.ID:  eggs,
	}

	total := TotalCost(r, ingredients)
	if !floatEq(total, 8.0) {
		t.Fatalf("TotalCost = %v, want 8.0", total)
	}

	perUnit := CostPerUnit(r, ingredients)
	if !floatEq(perUnit, 0.8) {
		t.Fatalf("CostPerUnit = %v, want 0.8", perUnit)
	}
}

func TestTotalCostConvertsLineUnits(t *testing.T) {
	flour := makeIngredient("Flour", "g", 5000, 0.002)

	r := &models.Recipe{
		Name:          "Bread",
		YieldQuantity: 4,
		Lines: []models.Line{
			{IngredientID: flour.ID, Quantity: 1.5, Unit: "kg"},
		},
	}
	ingredients := map[uuid.UUID]*invmodels.Ingredient{flour.ID: flour}

	// 1.5 kg = 1500 g at 0.002 per g
	if got := TotalCost(r, ingredients); !floatEq(got, 3.0) {
		t.Fatalf("TotalCost = %v, want 3.0", got)
	}
}

func TestTotalCostSkipsMissingIngredients(t *testing.T) {
	flour := makeIngredient("Flour", "g", 1000, 0.01)

	r := &models.Recipe{
		Name:          "Bread",
		YieldQuantity: 1,
		Lines: []models.Line{
			{IngredientID: flour.ID, Quantity: 100, Unit: "g"},
			{IngredientID: uuid.New(), Quantity: 5, Unit: "pcs"}, // deleted ingredient
		},
	}
	ingredients := map[uuid.UUID]*invmodels.Ingredient{flour.ID: flour}

	if got := TotalCost(r, ingredients); !floatEq(got, 1.0) {
		t.Fatalf("TotalCost = %v, want 1.0", got)
	}
}

func TestCostPerUnitZeroYieldFallsBackToBatchCost(t *testing.T) {
	flour := makeIngredient("Flour", "g", 1000, 0.01)
	r := &models.Recipe{
		Name:          "Test",
		YieldQuantity: 0,
		Lines:         []models.Line{{IngredientID: flour.ID, Quantity: 500, Unit: "g"}},
	}
	ingredients := map[uuid.UUID]*invmodels.Ingredient{flour.ID: flour}

	if got := CostPerUnit(r, ingredients); !floatEq(got, 5.0) {
		t.Fatalf("CostPerUnit with zero yield = %v, want 5.0", got)
	}
}

func TestCheckStock(t *testing.T) {
	flour := makeIngredient("Flour", "g", 1200, 0.01)
	eggs := makeIngredient("Eggs", "pcs", 10, 1.5)

	r := &models.Recipe{
		Name:          "Pound Cake",
		YieldQuantity: 10,
		Lines: []models.Line{
			{IngredientID: flour.ID, Quantity: 500, Unit: "g"},
			{IngredientID: eggs.ID, Quantity: 2, Unit: "pcs"},
		},
	}
	ingredients := map[uuid.UUID]*invmodels.Ingredient{
		flour.ID: flour,
		eggs.ID:  eggs,
	}

	t.Run("sufficient stock returns no shortages", func(t *testing.T) {
		if got := CheckStock(r, ingredients, 2); got != nil {
			t.Fatalf("CheckStock = %v, want nil", got)
		}
	})

	t.Run("shortage deficit is exact", func(t *testing.T) {
		shortages := CheckStock(r, ingredients, 3)
		if len(shortages) != 1 {
			t.Fatalf("got %d shortages, want 1: %v", len(shortages), shortages)
		}
		s := shortages[0]
		if s.IngredientName != "Flour" {
			t.Errorf("shortage ingredient = %q, want Flour", s.IngredientName)
		}
		if !floatEq(s.Needed, 1500) || !floatEq(s.Available, 1200) {
			t.Errorf("needed/available = %v/%v, want 1500/1200", s.Needed, s.Available)
		}
		if !floatEq(s.Deficit, s.Needed-s.Available) {
			t.Errorf("deficit = %v, want %v", s.Deficit, s.Needed-s.Available)
		}
		if s.Unit != "g" {
			t.Errorf("shortage unit = %q, want g", s.Unit)
		}
	})

	t.Run("shortages follow line order", func(t *testing.T) {
		shortages := CheckStock(r, ingredients, 10)
		if len(shortages) != 2 {
			t.Fatalf("got %d shortages, want 2: %v", len(shortages), shortages)
		}
		if shortages[0].IngredientName != "Flour" || shortages[1].IngredientName != "Eggs" {
			t.Errorf("shortage order = [%s, %s], want [Flour, Eggs]",
				shortages[0].IngredientName, shortages[1].IngredientName)
		}
	})

	t.Run("stock is never mutated", func(t *testing.T) {
		CheckStock(r, ingredients, 100)
		if flour.QuantityOnHand != 1200 || eggs.QuantityOnHand != 10 {
			t.Fatalf("stock mutated: flour=%v eggs=%v", flour.QuantityOnHand, eggs.QuantityOnHand)
		}
	})
}

func TestLineBaseQuantity(t *testing.T) {
	l := models.Line{Quantity: 2, Unit: "kg"}
	if got := LineBaseQuantity(l, 1.5); !floatEq(got, 3000) {
		t.Fatalf("LineBaseQuantity = %v, want 3000", got)
	}
}
