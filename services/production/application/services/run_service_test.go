package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	invdomain "github.com/ghuser/fournil/services/inventory/domain"
	invmodels "github.com/ghuser/fournil/services/inventory/domain/models"
	invmemory "github.com/ghuser/fournil/services/inventory/infrastructure/persistence/memory"
	proddomain "github.com/ghuser/fournil/services/production/domain"
	prodmemory "github.com/ghuser/fournil/services/production/infrastructure/persistence/memory"
	recmodels "github.com/ghuser/fournil/services/recipe/domain/models"
	recmemory "github.com/ghuser/fournil/services/recipe/infrastructure/persistence/memory"
)

type fixture struct {
	svc         *RunService
	ingredients *invmemory.IngredientStore
	recipes     *recmemory.RecipeStore
	shopID      uuid.UUID
	flour       *invmodels.Ingredient
	eggs        *invmodels.Ingredient
	recipe      *recmodels.Recipe
}

// newFixture seeds a shop with flour (1200 g at 0.01), eggs (10 pcs at 1.50),
// and a pound cake recipe yielding 10 pieces from 500 g flour and 2 eggs.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	shopID := uuid.New()
	ingredients := invmemory.NewIngredientStore()
	recipes := recmemory.NewRecipeStore()
	runs := prodmemory.NewRunStore(recipes, ingredients)

	flour, err := invmodels.NewIngredient(shopID, "Flour", "", "g", 1200, 0.01, 0)
	if err != nil {
		t.Fatal(err)
	}
	eggs, err := invmodels.NewIngredient(shopID, "Eggs", "", "pcs", 10, 1.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := ingredients.Save(ctx, flour); err != nil {
		t.Fatal(err)
	}
	if err := ingredients.Save(ctx, eggs); err != nil {
		t.Fatal(err)
	}

	recipe, err := recmodels.NewRecipe(shopID, "Pound Cake", "", 10, "pcs")
	if err != nil {
		t.Fatal(err)
	}
	if err := recipe.AddLine(flour.ID, 500, "g"); err != nil {
		t.Fatal(err)
	}
	if err := recipe.AddLine(eggs.ID, 2, "pcs"); err != nil {
		t.Fatal(err)
	}
	if err := recipes.Save(ctx, recipe); err != nil {
		t.Fatal(err)
	}

	return &fixture{
		svc:         NewRunService(runs, recipes, ingredients),
		ingredients: ingredients,
		recipes:     recipes,
		shopID:      shopID,
		flour:       flour,
		eggs:        eggs,
		recipe:      recipe,
	}
}

func (f *fixture) onHand(t *testing.T, id uuid.UUID) float64 {
	t.Helper()
	ing, err := f.ingredients.GetByID(context.Background(), f.shopID, id)
	if err != nil {
		t.Fatalf("get ingredient: %v", err)
	}
	return ing.QuantityOnHand
}

func TestCreatePricesPlannedCost(t *testing.T) {
	f := newFixture(t)

	run, err := f.svc.Create(context.Background(), f.shopID, RunInput{
		RecipeID: f.recipe.ID,
		Quantity: 20, // two batches
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if run.Status != "planned" {
		t.Errorf("status = %q, want planned", run.Status)
	}
	// one batch costs 8.00 at seeded prices
	if run.PlannedCost != 16.0 {
		t.Errorf("PlannedCost = %v, want 16.0", run.PlannedCost)
	}
	if f.onHand(t, f.flour.ID) != 1200 {
		t.Error("creating a run must not touch stock")
	}
}

func TestCompleteDeductsAndPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 20})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := f.svc.Complete(ctx, f.shopID, run.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !done.IsCompleted() || done.CompletedAt == nil {
		t.Fatalf("run not completed: %+v", done)
	}
	if done.ActualCost != 16.0 {
		t.Errorf("ActualCost = %v, want 16.0", done.ActualCost)
	}
	if got := f.onHand(t, f.flour.ID); got != 200 {
		t.Errorf("flour on hand = %v, want 200", got)
	}
	if got := f.onHand(t, f.eggs.ID); got != 6 {
		t.Errorf("eggs on hand = %v, want 6", got)
	}
}

func TestCompleteRealizedCostTracksPriceChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if run.PlannedCost != 8.0 {
		t.Fatalf("PlannedCost = %v, want 8.0", run.PlannedCost)
	}

	// flour doubles in price between planning and baking
	f.flour.CostPerBaseUnit = 0.02
	if err := f.ingredients.Update(ctx, f.flour); err != nil {
		t.Fatal(err)
	}

	done, err := f.svc.Complete(ctx, f.shopID, run.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.ActualCost != 13.0 {
		t.Errorf("ActualCost = %v, want 13.0", done.ActualCost)
	}
	if done.PlannedCost != 8.0 {
		t.Errorf("PlannedCost = %v, want unchanged 8.0", done.PlannedCost)
	}
}

func TestCompleteInsufficientStockDeductsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// three batches need 1500 g flour; only 1200 g on hand
	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.Complete(ctx, f.shopID, run.ID)
	if !errors.Is(err, invdomain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	var short *proddomain.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("err = %T, want *InsufficientStockError", err)
	}
	if len(short.Shortages) != 1 || short.Shortages[0].Deficit != 300 {
		t.Errorf("shortages = %+v, want one flour shortage with deficit 300", short.Shortages)
	}

	if f.onHand(t, f.flour.ID) != 1200 || f.onHand(t, f.eggs.ID) != 10 {
		t.Error("failed completion must not deduct anything")
	}

	got, err := f.svc.GetByID(ctx, f.shopID, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsCompleted() {
		t.Error("run must stay planned after a failed completion")
	}
}

// flakyIngredientStore fails deductions for one ingredient while behaving
// normally for the rest.
type flakyIngredientStore struct {
	*invmemory.IngredientStore
	failID uuid.UUID
}

func (s *flakyIngredientStore) DeductStock(ctx context.Context, shopID, id uuid.UUID, qty float64, unit string) error {
	if id == s.failID {
		return errors.New("connection reset")
	}
	return s.IngredientStore.DeductStock(ctx, shopID, id, qty, unit)
}

func TestCompleteMidBatchFailureRestoresDeductions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	flaky := &flakyIngredientStore{IngredientStore: f.ingredients, failID: f.eggs.ID}
	runs := prodmemory.NewRunStore(f.recipes, flaky)
	svc := NewRunService(runs, f.recipes, flaky)

	run, err := svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Complete(ctx, f.shopID, run.ID); err == nil {
		t.Fatal("expected completion to fail on the second line")
	}

	// the flour deduction from the first line must be undone
	if got := f.onHand(t, f.flour.ID); got != 1200 {
		t.Errorf("flour on hand = %v, want 1200 after rollback", got)
	}
	if got := f.onHand(t, f.eggs.ID); got != 10 {
		t.Errorf("eggs on hand = %v, want 10", got)
	}

	got, err := svc.GetByID(ctx, f.shopID, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsCompleted() {
		t.Error("run must stay planned after a failed completion")
	}
}

func TestCompleteTwiceFailsSecondAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Complete(ctx, f.shopID, run.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	flourAfter := f.onHand(t, f.flour.ID)

	_, err = f.svc.Complete(ctx, f.shopID, run.ID)
	if !errors.Is(err, proddomain.ErrRunAlreadyCompleted) {
		t.Fatalf("second complete err = %v, want ErrRunAlreadyCompleted", err)
	}
	if got := f.onHand(t, f.flour.ID); got != flourAfter {
		t.Errorf("second attempt changed stock: %v -> %v", flourAfter, got)
	}
}

func TestConcurrentCompletionsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.Complete(ctx, f.shopID, run.ID)
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, proddomain.ErrRunAlreadyCompleted):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if got := f.onHand(t, f.flour.ID); got != 700 {
		t.Errorf("flour on hand = %v, want 700 (one deduction)", got)
	}
}

func TestUpdateCompletedRunRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.svc.Create(ctx, f.shopID, RunInput{RecipeID: f.recipe.ID, Quantity: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.Complete(ctx, f.shopID, run.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = f.svc.Update(ctx, f.shopID, run.ID, RunInput{RecipeID: f.recipe.ID, Quantity: 5})
	if !errors.Is(err, proddomain.ErrCompletedRunImmutable) {
		t.Fatalf("update err = %v, want ErrCompletedRunImmutable", err)
	}
	if err := f.svc.Delete(ctx, f.shopID, run.ID); !errors.Is(err, proddomain.ErrCompletedRunImmutable) {
		t.Fatalf("delete err = %v, want ErrCompletedRunImmutable", err)
	}
}
