package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/fournil/services/waste/domain/models"
)

// Filter narrows waste listings.
type Filter struct {
	Category models.WasteCategory
	From     time.Time
	To       time.Time
}

// CategoryTotal is one slice of a waste cost breakdown.
type CategoryTotal struct {
	Category models.WasteCategory `json:"category"`
	Count    int                  `json:"count"`
	Cost     float64              `json:"cost"`
}

// WasteRepository persists WasteLogs.
type WasteRepository interface {
	Save(ctx context.Context, w *models.WasteLog) error
	GetByID(ctx context.Context, shopID, id uuid.UUID) (*models.WasteLog, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, f Filter) ([]*models.WasteLog, error)
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	// CostByCategory breaks down waste cost in [from, to) per category.
	CostByCategory(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]CategoryTotal, error)
}
