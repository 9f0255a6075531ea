package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/catalog/domain/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search     string
	Category   string
	ActiveOnly bool
}

// ProductRepository persists Products.
type ProductRepository interface {
	Save(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Product, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, f ProductFilter) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
}

// DailySummary aggregates one day of sales.
type DailySummary struct {
	Date       time.Time `json:"date"`
	SaleCount  int       `json:"sale_count"`
	Subtotal   float64   `json:"subtotal"`
	VATAmount  float64   `json:"vat_amount"`
	Total      float64   `json:"total"`
	ItemsSold  int       `json:"items_sold"`
}

// SaleRepository persists Sales. Sales are append-only; there is no update
// or delete.
type SaleRepository interface {
	Save(ctx context.Context, s *models.Sale) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.Sale, error)
	// FindByShop lists sales created in [from, to), newest first.
	FindByShop(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*models.Sale, error)
	// Summary aggregates sales created in [from, to).
	Summary(ctx context.Context, shopID uuid.UUID, from, to time.Time) (*DailySummary, error)
}
