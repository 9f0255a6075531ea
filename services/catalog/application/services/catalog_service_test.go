package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	"github.com/ghuser/fournil/services/catalog/infrastructure/persistence/memory"
)

func newTestCatalog() *CatalogService {
	return NewCatalogService(memory.NewProductStore(), memory.NewSaleStore())
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCheckoutVATMath(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()
	shopID := uuid.New()

	croissant, err := svc.CreateProduct(ctx, shopID, ProductInput{
		Name: "Croissant", Category: "viennoiserie", Price: 1.20, VATRate: 5.5, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	sandwich, err := svc.CreateProduct(ctx, shopID, ProductInput{
		Name: "Sandwich", Category: "snacking", Price: 5.00, VATRate: 10, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	sale, err := svc.Checkout(ctx, shopID, CheckoutInput{
		PaymentMethod: "card",
		CustomerName:  "Fatima",
		Items: []CheckoutItem{
			{ProductID: croissant.ID, Quantity: 3},
			{ProductID: sandwich.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// croissants: 3.60 net + 0.198 VAT; sandwich: 5.00 net + 0.50 VAT
	if !floatEq(sale.Subtotal, 8.60) {
		t.Errorf("Subtotal = %v, want 8.60", sale.Subtotal)
	}
	if !floatEq(sale.VATAmount, 0.698) {
		t.Errorf("VATAmount = %v, want 0.698", sale.VATAmount)
	}
	if !floatEq(sale.Total, 9.298) {
		t.Errorf("Total = %v, want 9.298", sale.Total)
	}
	if len(sale.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(sale.Items))
	}
	if sale.PaymentMethod != "card" || sale.CustomerName != "Fatima" {
		t.Errorf("payment/customer = %q/%q", sale.PaymentMethod, sale.CustomerName)
	}
}

func TestCheckoutFreezesPrices(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()
	shopID := uuid.New()

	baguette, err := svc.CreateProduct(ctx, shopID, ProductInput{
		Name: "Baguette", Price: 1.10, VATRate: 5.5, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	sale, err := svc.Checkout(ctx, shopID, CheckoutInput{
		Items: []CheckoutItem{{ProductID: baguette.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if _, err := svc.UpdateProduct(ctx, shopID, baguette.ID, ProductInput{
		Name: "Baguette", Price: 1.30, VATRate: 5.5, IsActive: true,
	}); err != nil {
		t.Fatalf("update product: %v", err)
	}

	got, err := svc.GetSale(ctx, shopID, sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if got.Items[0].UnitPrice != 1.10 {
		t.Errorf("frozen unit price = %v, want 1.10", got.Items[0].UnitPrice)
	}
}

func TestCheckoutRejectsEmptyAndInactive(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()
	shopID := uuid.New()

	_, err := svc.Checkout(ctx, shopID, CheckoutInput{})
	if !errors.Is(err, catdomain.ErrEmptySale) {
		t.Fatalf("empty checkout err = %v, want ErrEmptySale", err)
	}

	retired, err := svc.CreateProduct(ctx, shopID, ProductInput{
		Name: "Galette", Price: 18, VATRate: 5.5, IsActive: false,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Checkout(ctx, shopID, CheckoutInput{
		Items: []CheckoutItem{{ProductID: retired.ID, Quantity: 1}},
	})
	if !errors.Is(err, catdomain.ErrInvalidProduct) {
		t.Fatalf("inactive checkout err = %v, want ErrInvalidProduct", err)
	}

	_, err = svc.Checkout(ctx, shopID, CheckoutInput{
		Items: []CheckoutItem{{ProductID: uuid.New(), Quantity: 1}},
	})
	if !errors.Is(err, catdomain.ErrProductNotFound) {
		t.Fatalf("unknown product err = %v, want ErrProductNotFound", err)
	}
}

func TestDailySummary(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()
	shopID := uuid.New()

	coffee, err := svc.CreateProduct(ctx, shopID, ProductInput{
		Name: "Coffee", Price: 2.00, VATRate: 10, IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if _, err := svc.Checkout(ctx, shopID, CheckoutInput{
			Items: []CheckoutItem{{ProductID: coffee.ID, Quantity: 2}},
		}); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}

	sum, err := svc.DailySummary(ctx, shopID, time.Now().UTC())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.SaleCount != 3 || sum.ItemsSold != 6 {
		t.Errorf("count/items = %d/%d, want 3/6", sum.SaleCount, sum.ItemsSold)
	}
	if !floatEq(sum.Total, 13.2) {
		t.Errorf("Total = %v, want 13.2", sum.Total)
	}

	other, err := svc.DailySummary(ctx, uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if other.SaleCount != 0 {
		t.Error("summary must be tenant-scoped")
	}
}
