package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catdomain "github.com/ghuser/fournil/services/catalog/domain"
	"github.com/ghuser/fournil/services/catalog/domain/models"
	"github.com/ghuser/fournil/services/catalog/domain/repositories"
)

// ProductInput carries create/update form values for a product.
type ProductInput struct {
	Name     string
	Category string
	Price    float64
	VATRate  float64
	RecipeID *uuid.UUID
	IsActive bool
}

// CheckoutItem is one requested line of a checkout.
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput is one till transaction.
type CheckoutInput struct {
	Items         []CheckoutItem
	PaymentMethod string
	CustomerName  string
	Note          string
}

// CatalogService orchestrates the product catalog and the till. Checkout
// freezes product name, price, and VAT rate onto the sale lines so history
// is immune to later edits.
type CatalogService struct {
	products repositories.ProductRepository
	sales    repositories.SaleRepository
}

func NewCatalogService(products repositories.ProductRepository, sales repositories.SaleRepository) *CatalogService {
	return &CatalogService{products: products, sales: sales}
}

// CreateProduct persists a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, shopID uuid.UUID, in ProductInput) (*models.Product, error) {
	p, err := models.NewProduct(shopID, in.Name, in.Category, in.Price, in.VATRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catdomain.ErrInvalidProduct, err)
	}
	p.RecipeID = in.RecipeID
	p.IsActive = in.IsActive
	if err := s.products.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

// GetProduct loads a product scoped to the shop.
func (s *CatalogService) GetProduct(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListProducts returns the shop's products matching the filter.
func (s *CatalogService) ListProducts(ctx context.Context, shopID uuid.UUID, f repositories.ProductFilter) ([]*models.Product, error) {
	ps, err := s.products.FindByShop(ctx, shopID, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return ps, nil
}

// UpdateProduct overwrites a product. Past sales keep their frozen prices.
func (s *CatalogService) UpdateProduct(ctx context.Context, shopID, id uuid.UUID, in ProductInput) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", catdomain.ErrInvalidProduct)
	}
	if in.Price < 0 || in.VATRate < 0 || in.VATRate > 100 {
		return nil, fmt.Errorf("%w: bad price or vat rate", catdomain.ErrInvalidProduct)
	}
	p.Name = in.Name
	p.Category = in.Category
	p.Price = in.Price
	p.VATRate = in.VATRate
	p.RecipeID = in.RecipeID
	p.IsActive = in.IsActive
	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, shopID, id uuid.UUID) error {
	if err := s.products.Delete(ctx, shopID, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Checkout prices the requested items at current catalog prices and records
// the sale. The basket is rejected whole when empty or when any product is
// unknown or inactive.
func (s *CatalogService) Checkout(ctx context.Context, shopID uuid.UUID, in CheckoutInput) (*models.Sale, error) {
	if len(in.Items) == 0 {
		return nil, catdomain.ErrEmptySale
	}

	items := make([]models.SaleItem, 0, len(in.Items))
	for _, req := range in.Items {
		p, err := s.products.GetByID(ctx, shopID, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("checkout product %s: %w", req.ProductID, err)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: %s is not for sale", catdomain.ErrInvalidProduct, p.Name)
		}
		items = append(items, models.SaleItem{
			ID:          uuid.New(),
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    req.Quantity,
			VATRate:     p.VATRate,
		})
	}

	sale, err := models.NewSale(shopID, items, in.PaymentMethod, in.CustomerName, in.Note)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catdomain.ErrEmptySale, err)
	}
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, fmt.Errorf("save sale: %w", err)
	}
	return sale, nil
}

// GetSale loads a sale with its items.
func (s *CatalogService) GetSale(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.sales.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// ListSales lists sales of one calendar day, newest first.
func (s *CatalogService) ListSales(ctx context.Context, shopID uuid.UUID, day time.Time) ([]*models.Sale, error) {
	from, to := dayBounds(day)
	sales, err := s.sales.FindByShop(ctx, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// DailySummary aggregates one calendar day of sales.
func (s *CatalogService) DailySummary(ctx context.Context, shopID uuid.UUID, day time.Time) (*repositories.DailySummary, error) {
	from, to := dayBounds(day)
	sum, err := s.sales.Summary(ctx, shopID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return sum, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}
